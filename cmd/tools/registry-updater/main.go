// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"seasonal-story-workers/internal/common/config"
	"seasonal-story-workers/pkg/registry"

	csc "seasonal-story-workers/internal/workers/story/collect-store-context"
	gms "seasonal-story-workers/internal/workers/story/generate-menu-story"
	gss "seasonal-story-workers/internal/workers/story/generate-seasonal-story"
	gwm "seasonal-story-workers/internal/workers/story/generate-welcome-message"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	exportPath := exportCmd.String("path", defaultRegistryPath, "Path to registry file")
	configPath := exportCmd.String("config", "", "Config file used for worker timeouts (defaults to the usual lookup)")
	exportVersion := exportCmd.String("version", "1.0.0", "Registry version")

	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	id := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, description, timeout, retries)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		reg, err := builtinRegistry(*configPath, *exportVersion)
		if err == nil {
			err = reg.Validate()
		}
		if err == nil {
			err = reg.Save(*exportPath)
		}
		if err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d activities to %s\n", len(reg.Activities), *exportPath)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *id == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *id, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err == nil {
			err = reg.Validate()
		}
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	default:
		help()
	}
}

// builtinRegistry describes the workers compiled into worker-manager, with timeouts
// taken from the same configuration the manager reads.
func builtinRegistry(configPath, version string) (*registry.ActivityRegistry, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return registry.New(version, time.Now(),
		gss.Activity(gss.NewConfig(config.GetWorkerConfig(cfg, gss.TaskType))),
		csc.Activity(csc.NewConfig(config.GetWorkerConfig(cfg, csc.TaskType))),
		gwm.Activity(gwm.NewConfig(config.GetWorkerConfig(cfg, gwm.TaskType))),
		gms.Activity(gms.NewConfig(config.GetWorkerConfig(cfg, gms.TaskType))),
	), nil
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	a, ok := reg.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}
	updated := *a
	switch field {
	case "status":
		updated.ImplementationStatus = value
	case "version":
		updated.Version = value
	case "description":
		updated.Description = value
	case "timeout":
		updated.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		updated.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.Upsert(updated, time.Now())
	if err := reg.Validate(); err != nil {
		return err
	}
	return reg.Save(path)
}

func help() {
	fmt.Println("Usage: registry-updater <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  export    Write the built-in story activities to the registry file")
	fmt.Println("  update    Change one field of an activity")
	fmt.Println("  validate  Check the registry file")
}
