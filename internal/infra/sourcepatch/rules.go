package sourcepatch

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jugl/opencv-setup/internal/domain"
)

const embeddedRulesName = "rules.yaml"

//go:embed rules.yaml
var embeddedRules []byte

// CameraRules returns the rule set shipped with the binary.
func CameraRules() (domain.PatchSet, error) {
	return ParseRules(embeddedRulesName, embeddedRules)
}

// ParseRules decodes and validates a YAML rule document.
func ParseRules(name string, b []byte) (domain.PatchSet, error) {
	var dto YAMLRuleSet
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return nil, &domain.OpError{
			Op:   "sourcepatch.parse",
			Kind: domain.KindInvalidConfig,
			Path: name,
			Err:  err,
		}
	}
	return MapRules(name, dto)
}

func MapRules(name string, dto YAMLRuleSet) (domain.PatchSet, error) {
	set := make(domain.PatchSet, 0, len(dto.Rules))
	for i, r := range dto.Rules {
		action, err := parseAction(r.Action)
		if err != nil {
			return nil, invalidField(name, fmt.Sprintf("rules[%d].action", i), err.Error())
		}
		set = append(set, domain.PatchRule{
			Name:        strings.TrimSpace(r.Name),
			Marker:      r.Marker,
			Action:      action,
			Replacement: r.Replacement,
			Line:        r.Line,
		})
	}

	if err := set.Validate(); err != nil {
		return nil, &domain.OpError{
			Op:   "sourcepatch.map",
			Kind: domain.KindInvalidConfig,
			Path: name,
			Err:  err,
		}
	}
	return set, nil
}

func parseAction(a string) (domain.PatchAction, error) {
	switch act := domain.PatchAction(strings.ToLower(strings.TrimSpace(a))); act {
	case domain.PatchReplace, domain.PatchInsertBefore:
		return act, nil
	default:
		return "", fmt.Errorf("unsupported action %q", a)
	}
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "sourcepatch.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
