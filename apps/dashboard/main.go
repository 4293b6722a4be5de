package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/assistant"
	"github.com/trezcool/ratiba/core/notify"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/services/backend"
	logsvc "github.com/trezcool/ratiba/services/logger"
)

const logFile = "dashboard.log"

func main() {
	conf := core.NewConfig()

	// the terminal belongs to the UI: log to a file
	f, err := os.OpenFile(filepath.Join(conf.WorkDir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("opening log file: %v", err)
	}
	defer f.Close()

	logger := logsvc.NewRollbarLogger(log.New(f, "DASHBOARD : ", log.LstdFlags), conf)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	if err := run(conf, logger); err != nil {
		logger.Error(err.Error(), err)
		log.Fatal(err)
	}
}

func run(conf *core.Config, logger core.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := notify.NewBus(logger)
	client := backend.NewClient(conf.Backend)

	ctrl := schedule.NewController(conf.Backend.OwnerID, client, bus, logger)
	defer ctrl.Unmount()

	detector := assistant.NewMutationDetector(conf.Assistant.MutationPhrases, conf.Assistant.Similarity)
	session := assistant.NewSession(client, detector, bus, logger)

	refresher, err := startRefresh(conf.Dashboard.RefreshCron, conf.Backend.Timeout, ctrl, logger)
	if err != nil {
		return err
	}
	defer refresher.Stop()

	m := newModel(ctx, ctrl, session, conf.Dashboard.MaxEventsPerCell)
	p := tea.NewProgram(m, tea.WithAltScreen())
	ctrl.OnChange(func() { go p.Send(changedMsg{}) })

	logger.Info("dashboard started", map[string]interface{}{"owner": conf.Backend.OwnerID})
	_, err = p.Run()
	return err
}
