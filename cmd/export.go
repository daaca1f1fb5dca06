package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"trade-journal/internal/auth"
	"trade-journal/internal/repository"
	"trade-journal/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	exportEmail string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one user's trades as CSV",
	RunE:  Export,
}

func init() {
	exportCmd.Flags().StringVar(&exportEmail, "email", "", "email of the journal owner")
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output file, - for stdout")
	_ = exportCmd.MarkFlagRequired("email")
}

func Export(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	appDep, err := NewAppDependency()
	if err != nil {
		return err
	}
	defer appDep.Close()

	repo := repository.NewRepository(appDep.db.DB)
	user, err := repo.UserRepo.GetUserByEmail(ctx, utils.NormalizeEmail(exportEmail))
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no user with email %q", exportEmail)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "-" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	services := appDep.Services()
	return services.JournalService.ExportCSV(ctx, &auth.Identity{ID: user.ID, Email: user.Email}, w)
}
