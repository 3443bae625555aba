package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drpal/commandments/config"
	"github.com/drpal/commandments/models"
	"github.com/drpal/commandments/services"
	"github.com/drpal/commandments/utils"
)

var reconcileUserID uint

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute user scores and streaks from daily logs",
	Long: `Recompute every user's lifetime score and streak from the daily log history
and repair any user whose stored values disagree.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().UintVar(&reconcileUserID, "user", 0, "Reconcile a single user id")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	db := config.InitDatabase(models.All()...)
	defer config.CloseDatabase()

	var cache services.Cache
	if rc := utils.GetRedis(); rc != nil {
		cache = utils.NewRedisCache(rc)
	}

	timeout := time.Duration(cfg.DBTimeoutSec) * time.Second
	users := services.NewUserStore(db, timeout)
	logs := services.NewDailyLogStore(db, timeout)
	engine := services.NewEngine(db, users, logs, cache, timeout)

	out := cmd.OutOrStdout()
	if reconcileUserID != 0 {
		rec, err := engine.Reconcile(cmd.Context(), reconcileUserID)
		if err != nil {
			return err
		}
		printReconciliation(cmd, *rec)
		return nil
	}

	drifted, err := engine.ReconcileAll(cmd.Context())
	for _, rec := range drifted {
		printReconciliation(cmd, rec)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d user(s) repaired\n", len(drifted))
	return nil
}

func printReconciliation(cmd *cobra.Command, rec services.Reconciliation) {
	status := "OK"
	if rec.Drifted() {
		status = "REPAIRED"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-8s user=%d score %d -> %d streak %d -> %d\n",
		status, rec.UserID, rec.StoredScore, rec.LogScore, rec.StoredStreak, rec.LogStreak)
}
