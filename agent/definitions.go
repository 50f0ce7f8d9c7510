package agent

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kardolus/playmaker/internal/fsio"
)

// Definition describes one named agent the runtime can route tasks to.
// Definitions are provisioned once per project as markdown files with a
// YAML front matter block, the format the agent CLI expects.
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tools       []string `yaml:"tools,flow"`
	Model       string   `yaml:"model"`

	Prompt string `yaml:"-"`
}

const definitionsDir = ".claude/agents"

func DefaultDefinitions(model string) []Definition {
	return []Definition{
		{
			Name:        "planner",
			Description: "Creates detailed Playwright test plans from change descriptions",
			Tools:       []string{"Read"},
			Model:       model,
			Prompt:      PlannerPrompt,
		},
		{
			Name:        "generator",
			Description: "Turns saved test plans into Playwright spec files",
			Tools:       []string{"Read", "Write", "Bash"},
			Model:       model,
			Prompt:      GeneratorPrompt,
		},
		{
			Name:        "judge",
			Description: "Evaluates generated Playwright tests for quality",
			Tools:       []string{"Read"},
			Model:       model,
			Prompt:      JudgePrompt,
		},
		{
			Name:        "healer",
			Description: "Repairs failing Playwright tests",
			Tools:       []string{"Read", "Write", "Bash"},
			Model:       model,
			Prompt:      HealerPrompt,
		},
	}
}

// WriteDefinitions provisions the definition files under the project
// directory. Existing files are left alone so local edits survive.
func WriteDefinitions(w fsio.Writer, projectDir string, defs []Definition) ([]string, error) {
	dir := filepath.Join(projectDir, definitionsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, def := range defs {
		path := filepath.Join(dir, def.Name+".md")
		if _, err := os.Stat(path); err == nil {
			continue
		}

		body, err := def.render()
		if err != nil {
			return written, err
		}

		file, err := w.Create(path)
		if err != nil {
			return written, err
		}
		if err := w.Write(file, body); err != nil {
			_ = file.Close()
			return written, err
		}
		if err := file.Close(); err != nil {
			return written, fmt.Errorf("close %s: %w", path, err)
		}

		written = append(written, path)
	}

	return written, nil
}

func (d Definition) render() ([]byte, error) {
	meta, err := yaml.Marshal(d)
	if err != nil {
		return nil, err
	}

	out := append([]byte("---\n"), meta...)
	out = append(out, []byte("---\n\n")...)
	out = append(out, []byte(d.Prompt)...)
	if len(d.Prompt) > 0 && d.Prompt[len(d.Prompt)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}
