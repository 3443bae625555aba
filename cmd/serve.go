package cmd

import (
	"github.com/spf13/cobra"

	"github.com/drpal/commandments/config"
	"github.com/drpal/commandments/models"
	"github.com/drpal/commandments/routes"
	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	db := config.InitDatabase(models.All()...)
	defer config.CloseDatabase()

	var cache services.Cache
	if rc := utils.GetRedis(); rc != nil {
		cache = utils.NewRedisCache(rc)
	}

	r := routes.SetupRouter(db, cache)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(cmd.Context(), ":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
		return err
	}
	return nil
}
