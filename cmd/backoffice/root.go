package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/obras-backoffice/pkg/config"
	"github.com/jhoicas/obras-backoffice/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Herramientas de operación del back office de obras",
	Long: `backoffice agrupa las tareas de operación que no pasan por la API:
aplicar migraciones, cargar datos de ejemplo, revisar las cadenas de documentos
de una empresa y emitir tokens JWT para desarrollo.

La configuración se lee igual que en la API (variables de entorno, .env, config.env).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
		return nil
	},
}
