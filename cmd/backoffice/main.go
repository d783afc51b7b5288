// backoffice herramientas de operación: migraciones, datos de prueba, inspección de cadenas
// y tokens de desarrollo.
//
// Uso: go run ./cmd/backoffice <comando> [flags]
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional; las variables del entorno tienen prioridad.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Advertencia: no se pudo leer .env: %v\n", err)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
