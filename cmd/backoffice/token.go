package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/obras-backoffice/pkg/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite un JWT de desarrollo",
	Example: `  backoffice token --company 4f1c2b1e-8d0a-4c5e-9f57-3b2a1c0d9e8f --role finanzas
  curl -H "Authorization: Bearer $(backoffice token --company ...)" localhost:8080/api/invoices`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("company", "", "ID de la empresa (obligatorio)")
	tokenCmd.Flags().String("user", "00000000-0000-0000-0000-000000000001", "ID del usuario")
	tokenCmd.Flags().String("role", jwt.RoleAdmin, "Rol: admin, finanzas u obra")
	tokenCmd.Flags().Int("minutes", 0, "Vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	_ = tokenCmd.MarkFlagRequired("company")
}

func runToken(cmd *cobra.Command, args []string) error {
	companyID, _ := cmd.Flags().GetString("company")
	userID, _ := cmd.Flags().GetString("user")
	role, _ := cmd.Flags().GetString("role")
	minutes, _ := cmd.Flags().GetInt("minutes")

	switch role {
	case jwt.RoleAdmin, jwt.RoleFinanzas, jwt.RoleObra:
	default:
		return fmt.Errorf("rol desconocido %q", role)
	}
	if cfg.App.Env == "production" {
		return fmt.Errorf("token de desarrollo no disponible en producción")
	}
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, minutes, jwt.Identity{
		UserID: userID, CompanyID: companyID, Role: role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
