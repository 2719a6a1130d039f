package sourcepatch

type YAMLRuleSet struct {
	Rules []YAMLRule `yaml:"rules"`
}

type YAMLRule struct {
	Name        string `yaml:"name"`
	Marker      string `yaml:"marker"`
	Action      string `yaml:"action"`
	Replacement string `yaml:"replacement"`
	Line        string `yaml:"line"`
}
