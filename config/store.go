package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kardolus/playmaker/internal"
)

const (
	defaultName           = "playmaker"
	defaultModel          = "sonnet"
	defaultAgentBinary    = "claude"
	defaultMaxTurns       = 30
	defaultMaxBudgetUSD   = 5.0
	defaultCostMode       = "authoritative"
	defaultJudgeThreshold = 70
	defaultWorkDir        = "."
	defaultSpecsDir       = "specs"
	defaultTestsDir       = "tests"
	defaultGithubURL      = "https://api.github.com"
)

type ConfigStore interface {
	Read() (Config, error)
	ReadDefaults() Config
	Write(Config) error
}

// Ensure FileIO implements ConfigStore interface
var _ ConfigStore = &FileIO{}

type FileIO struct {
	configFilePath string
}

func New() *FileIO {
	configPath, _ := getPath()

	return &FileIO{configFilePath: configPath}
}

func (f *FileIO) WithConfigPath(configFilePath string) *FileIO {
	f.configFilePath = configFilePath
	return f
}

func (f *FileIO) Read() (Config, error) {
	return parseFile(f.configFilePath)
}

func (f *FileIO) ReadDefaults() Config {
	return Config{
		Name:           defaultName,
		Model:          defaultModel,
		AgentBinary:    defaultAgentBinary,
		MaxTurns:       defaultMaxTurns,
		MaxBudgetUSD:   defaultMaxBudgetUSD,
		CostMode:       defaultCostMode,
		JudgeThreshold: defaultJudgeThreshold,
		WorkDir:        defaultWorkDir,
		SpecsDir:       defaultSpecsDir,
		TestsDir:       defaultTestsDir,
		GithubURL:      defaultGithubURL,
		AllowedTools:   []string{"Read", "Write", "Bash", "Task"},
	}
}

func (f *FileIO) Write(config Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.configFilePath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(f.configFilePath, data, 0644)
}

func getPath() (string, error) {
	homeDir, err := internal.GetConfigHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, "config.yaml"), nil
}

func parseFile(fileName string) (Config, error) {
	var result Config

	buf, err := os.ReadFile(fileName)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(buf, &result); err != nil {
		return Config{}, err
	}

	return result, nil
}
