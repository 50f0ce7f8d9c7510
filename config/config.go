package config

// Config drives the whole harness. The Name field doubles as the
// environment variable prefix (PLAYMAKER_*).
type Config struct {
	Name           string  `yaml:"name"`
	Model          string  `yaml:"model"`
	AgentBinary    string  `yaml:"agent_binary"`
	MaxTurns       int     `yaml:"max_turns"`
	MaxBudgetUSD   float64 `yaml:"max_budget_usd"`
	CostMode       string  `yaml:"cost_mode"`
	JudgeThreshold int     `yaml:"judge_threshold"`
	WorkDir        string  `yaml:"work_dir"`
	SpecsDir       string  `yaml:"specs_dir"`
	TestsDir       string  `yaml:"tests_dir"`
	GithubURL      string  `yaml:"github_url"`
	GithubToken    string  `yaml:"github_token"`

	AllowedTools []string `yaml:"allowed_tools"`
}
