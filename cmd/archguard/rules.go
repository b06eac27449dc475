package main

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"gopkg.in/yaml.v3"
)

// rules is the .archguard.yml document. Missing layer lists fall back to the
// directory names the modules use.
type rules struct {
	Root           string   `yaml:"root"`
	IgnoreTests    bool     `yaml:"ignore_tests"`
	IgnorePackages []string `yaml:"ignore_packages"`
	// Other modules may import these freely.
	Shared []string `yaml:"shared_modules"`
	// Violations whose message contains one of these are reported as fine.
	Allow  []string `yaml:"allow"`
	Layers struct {
		Domain         []string `yaml:"domain"`
		Application    []string `yaml:"application"`
		Interfaces     []string `yaml:"interfaces"`
		Infrastructure []string `yaml:"infrastructure"`
	} `yaml:"layers"`
}

var (
	domainDirs         = []string{"domain"}
	applicationDirs    = []string{"services"}
	interfacesDirs     = []string{"presentation"}
	infrastructureDirs = []string{"infrastructure"}
)

func defaultRules() *rules {
	return &rules{Root: "modules", IgnoreTests: true}
}

// loadRules reads path; a missing file yields the defaults.
func loadRules(path string) (*rules, error) {
	r := defaultRules()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, err
	}
	if r.Root == "" {
		r.Root = "modules"
	}
	return r, nil
}

func (r *rules) aliases() map[string]cleanarch.Layer {
	m := map[string]cleanarch.Layer{}
	add := func(dirs, fallback []string, layer cleanarch.Layer) {
		if len(dirs) == 0 {
			dirs = fallback
		}
		for _, d := range dirs {
			if d = strings.TrimSpace(d); d != "" {
				m[d] = layer
			}
		}
	}
	add(r.Layers.Domain, domainDirs, cleanarch.LayerDomain)
	add(r.Layers.Application, applicationDirs, cleanarch.LayerApplication)
	add(r.Layers.Interfaces, interfacesDirs, cleanarch.LayerInterfaces)
	add(r.Layers.Infrastructure, infrastructureDirs, cleanarch.LayerInfrastructure)
	return m
}

func (r *rules) check() ([]string, error) {
	root, err := filepath.Abs(r.Root)
	if err != nil {
		return nil, err
	}
	ok, errs, err := cleanarch.NewValidator(r.aliases()).Validate(root, r.IgnoreTests, r.IgnorePackages)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	return r.filter(messages), nil
}

var crossModule = regexp.MustCompile(`between ([\w-]+) and ([\w-]+) modules`)

func (r *rules) filter(messages []string) []string {
	shared := make(map[string]bool, len(r.Shared))
	for _, s := range r.Shared {
		shared[strings.TrimSpace(s)] = true
	}
	var kept []string
	for _, msg := range messages {
		if m := crossModule.FindStringSubmatch(msg); m != nil && (shared[m[1]] || shared[m[2]]) {
			continue
		}
		if r.allowed(msg) {
			continue
		}
		kept = append(kept, msg)
	}
	return kept
}

func (r *rules) allowed(msg string) bool {
	for _, a := range r.Allow {
		if a != "" && strings.Contains(msg, a) {
			return true
		}
	}
	return false
}
