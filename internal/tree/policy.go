package tree

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default pattern lists. Patterns are unanchored and searched in the lowered
// full path, so a denied token anywhere in the path excludes it.
var (
	DefaultAllow = []string{
		`\.py$`, `\.js$`, `\.ts$`, `\.java$`, `\.scala$`, `readme\.md`,
		`\.cpp$`, `\.cc$`, `\.cxx$`, `\.hpp$`, `\.hxx$`, `\.h$`,
		`\.go$`, `\.rb$`, `\.rs$`, `\.php$`,
	}

	DefaultDenyFiles = []string{
		`(^|/)\.[^/]+($|/)`, // dotfiles
		`__\w+`,
		`setup`, `d\.ts`, `build`, `demo`, `entrypoint`, `example`, `config`,
		`sponsor`, `contrib`, `gulpfile`, `webpack`, `\.min\.js`, `\.spec`, `types`,
		`test`, `generated`, `vendor`,
	}

	DefaultDenyDirs = []string{
		`(^|/)\.[^/]+($|/)`,
		`__\w+`,
		`appimage`, `appearance`, `art`, `assets`, `audio`, `bench`, `bin`, `build`,
		`cache`, `changelog`, `ci`, `cmake`, `contrib`, `debug`, `demo`, `developer`,
		`docker`, `doc`, `e2e`, `example`, `extra`, `esm`, `guide`, `html`, `image`,
		`img`, `node_modules`, `output`, `public`, `picture`, `release`, `requirement`,
		`sample`, `script`, `setup`, `static`, `support`, `screenshot`, `target`,
		`temp`, `theme`, `tool`, `test`, `third_party`, `tmp`, `vendor`, `video`,
		`workflows`, `locale`, `conf`, `tutorial`,
	}
)

// Policy decides which files and directories survive filtering.
type Policy struct {
	Allow     []*regexp.Regexp
	DenyFiles []*regexp.Regexp
	DenyDirs  []*regexp.Regexp
}

// policyFile is the YAML layout read by LoadPolicy.
type policyFile struct {
	Allow     []string `yaml:"allow"`
	DenyFiles []string `yaml:"deny_files"`
	DenyDirs  []string `yaml:"deny_dirs"`
}

// NewPolicy compiles the given pattern lists.
func NewPolicy(allow, denyFiles, denyDirs []string) (*Policy, error) {
	var p Policy
	var err error
	if p.Allow, err = compileAll("allow", allow); err != nil {
		return nil, err
	}
	if p.DenyFiles, err = compileAll("deny_files", denyFiles); err != nil {
		return nil, err
	}
	if p.DenyDirs, err = compileAll("deny_dirs", denyDirs); err != nil {
		return nil, err
	}
	return &p, nil
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultAllow, DefaultDenyFiles, DefaultDenyDirs)
	if err != nil {
		panic(fmt.Sprintf("invalid default tree policy: %v", err))
	}
	return p
}

// LoadPolicy reads a YAML policy file. A list missing from the file keeps
// its default; an explicitly empty list disables that rule set.
func LoadPolicy(filename string) (*Policy, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	pf := policyFile{
		Allow:     DefaultAllow,
		DenyFiles: DefaultDenyFiles,
		DenyDirs:  DefaultDenyDirs,
	}
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	return NewPolicy(pf.Allow, pf.DenyFiles, pf.DenyDirs)
}

// KeepFile reports whether a file path matches an allow pattern and no deny pattern.
func (p *Policy) KeepFile(filePath string) bool {
	lowered := strings.ToLower(filePath)
	return matchAny(p.Allow, lowered) && !matchAny(p.DenyFiles, lowered)
}

// EnterDir reports whether a directory path matches no directory deny pattern.
func (p *Policy) EnterDir(dirPath string) bool {
	return !matchAny(p.DenyDirs, strings.ToLower(dirPath))
}

// Filter returns a pruned copy of the hierarchy rooted at root. Children are
// filtered before their parent, and a directory is kept only if it ends up
// holding at least one file or one surviving child. The root itself is always
// returned, possibly empty. The input is not modified.
func (p *Policy) Filter(root *Node) *Node {
	out := &Node{Path: root.Path}

	for _, f := range root.Files {
		if p.KeepFile(f) {
			out.Files = append(out.Files, f)
		}
	}

	for _, d := range root.Dirs {
		if !p.EnterDir(d.Path) {
			continue
		}
		child := p.Filter(d)
		if len(child.Files) > 0 || len(child.Dirs) > 0 {
			out.Dirs = append(out.Dirs, child)
		}
	}

	return out
}

func compileAll(field string, patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", field, pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
