package main

import (
	"log"
	"os"
	"strconv"
	"syscall"

	"github.com/shadebar/shade/internal/config"
	"github.com/shadebar/shade/internal/core"
)

const pidFile = "/tmp/shade.pid"

func ensureSingleInstance() error {
	if data, err := os.ReadFile(pidFile); err == nil {
		if pid, err := strconv.Atoi(string(data)); err == nil {
			process, err := os.FindProcess(pid)
			if err == nil {
				// Replace any previous instance
				if err := process.Signal(syscall.Signal(0)); err == nil {
					process.Kill()
					process.Wait()
				}
			}
		}
	}
	currentPid := os.Getpid()
	return os.WriteFile(pidFile, []byte(strconv.Itoa(currentPid)), 0644)
}

func cleanup() {
	os.Remove(pidFile)
}

func main() {
	logFile, err := os.OpenFile("shade.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	if err := ensureSingleInstance(); err != nil {
		log.Fatalf("Failed to ensure single instance: %v", err)
	}
	defer cleanup()

	configPath := "~/.config/shade/config.toml"
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		cfg = &config.DefaultConfig
	}

	app, err := core.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}

	os.Exit(0)
}
