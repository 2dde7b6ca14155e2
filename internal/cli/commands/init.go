package commands

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/relspec/relspec/internal/cli/config"
)

var initForceFlag bool

// validateProjectName validates project name with security checks
func validateProjectName(name string) error {
	name = strings.TrimSpace(name)

	// Check length
	if len(name) == 0 || len(name) > 100 {
		return fmt.Errorf("project name must be 1-100 characters")
	}

	// Only allow alphanumeric, dash, and underscore
	matched, _ := regexp.MatchString(`^[a-zA-Z0-9_-]+$`, name)
	if !matched {
		return fmt.Errorf("project name can only contain letters, numbers, dashes, and underscores")
	}

	return nil
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a relspec.yml configuration interactively",
		Long: `Create a relspec.yml in the current directory through interactive prompts.

The configuration records the database connection, the entity manifest path,
and the default scope used when no manifest exists.`,
		Example: `  relspec init

  # Overwrite an existing configuration
  relspec init --force`,
		RunE: runInit,
	}

	cmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "Overwrite an existing relspec.yml")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)

	if config.InProject() && !initForceFlag {
		return fmt.Errorf("relspec.yml already exists (use --force to overwrite)")
	}

	var answers struct {
		ProjectName string
		Driver      string
		DatabaseURL string
		Scope       string
		Manifest    string
	}

	questions := []*survey.Question{
		{
			Name:   "projectName",
			Prompt: &survey.Input{Message: "Project name:"},
			Validate: func(val interface{}) error {
				name, ok := val.(string)
				if !ok {
					return fmt.Errorf("project name must be a string")
				}
				return validateProjectName(name)
			},
		},
		{
			Name: "driver",
			Prompt: &survey.Select{
				Message: "Database driver:",
				Options: []string{"postgres", "sqlite"},
				Default: "postgres",
			},
		},
		{
			Name: "databaseURL",
			Prompt: &survey.Input{
				Message: "Database URL:",
				Default: "postgresql://localhost:5432/app_development",
			},
		},
		{
			Name:   "scope",
			Prompt: &survey.Input{Message: "Default scope:", Default: "public"},
		},
		{
			Name:   "manifest",
			Prompt: &survey.Input{Message: "Entity manifest path:", Default: "entities.yml"},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	content := renderConfig(answers.ProjectName, answers.DatabaseURL, answers.Driver,
		answers.Manifest, answers.Scope)
	if err := os.WriteFile("relspec.yml", []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write relspec.yml: %w", err)
	}

	successColor.Println("✓ Wrote relspec.yml")
	infoColor.Println("\nNext steps:")
	fmt.Println("  1. Check the database url in relspec.yml or export DATABASE_URL")
	fmt.Printf("  2. Declare entities in %s, or skip it to register a whole scope\n", answers.Manifest)
	fmt.Println("  3. Run 'relspec inspect' to register and derive validators")

	return nil
}

// renderConfig renders the relspec.yml contents
func renderConfig(project, url, driver, manifestPath, scope string) string {
	return fmt.Sprintf(`project_name: %s

database:
  url: %s
  driver: %s

registry:
  manifest: %s
  default_scope: %s
  commit: true
`, project, url, driver, manifestPath, scope)
}
