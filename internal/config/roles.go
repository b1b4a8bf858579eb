package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Base roles are always part of the enumeration.
const (
	RoleAdmin = "admin"
	RoleMod   = "mod"
	RoleUser  = "user"
)

//go:embed roles.yaml
var defaultRolesYAML []byte

type rolesFile struct {
	Constituencies []string `yaml:"constituencies"`
}

// Roles is the closed set of role strings a user account may carry.
type Roles struct {
	ordered []string
	set     map[string]struct{}
}

// LoadRoles reads the role enumeration from path, or the embedded default when path is empty.
func LoadRoles(path string) (*Roles, error) {
	data := defaultRolesYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read roles file: %w", err)
		}
		data = b
	}
	return ParseRoles(data)
}

// ParseRoles builds the enumeration from YAML bytes.
func ParseRoles(data []byte) (*Roles, error) {
	var f rolesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roles: %w", err)
	}

	r := &Roles{set: map[string]struct{}{}}
	for _, name := range append([]string{RoleAdmin, RoleMod, RoleUser}, f.Constituencies...) {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("parse roles: empty constituency entry")
		}
		if _, dup := r.set[name]; dup {
			continue
		}
		r.set[name] = struct{}{}
		r.ordered = append(r.ordered, name)
	}
	return r, nil
}

// Contains reports whether role is part of the enumeration.
func (r *Roles) Contains(role string) bool {
	_, ok := r.set[role]
	return ok
}

// All returns the enumeration in declaration order.
func (r *Roles) All() []string {
	out := make([]string, len(r.ordered))
	copy(out, r.ordered)
	return out
}
