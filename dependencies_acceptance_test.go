package folio_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// Modules the server and folioctl are built around; losing one from go.mod
// means a component silently fell back to something else.
var coreModules = []string{
	"github.com/gin-gonic/gin",
	"gorm.io/gorm",
	"github.com/glebarez/sqlite",
	"github.com/simp-lee/jwt",
	"github.com/simp-lee/pagination",
	"golang.org/x/crypto",
	"golang.org/x/time",
	"github.com/knadh/koanf/v2",
	"github.com/simp-lee/logger",
	"github.com/aws/aws-sdk-go-v2/service/s3",
	"github.com/wneessen/go-mail",
	"github.com/nfnt/resize",
	"github.com/alecthomas/kong",
	"gopkg.in/yaml.v3",
}

func TestModuleDependencies_Present(t *testing.T) {
	goMod := readGoMod(t)
	for _, module := range coreModules {
		if !moduleRequired(goMod, module) {
			t.Errorf("go.mod does not require %q", module)
		}
	}

	fixture := "module example.com/demo\n\ngo 1.25.0\n\nrequire (\n\tgithub.com/stretchr/testify v1.11.1\n)\n"
	if moduleRequired(fixture, "github.com/gin-gonic/gin") {
		t.Error("moduleRequired matched a module the fixture does not list")
	}
}

func TestModuleDependencies_DirectRequiresAreImported(t *testing.T) {
	imports := make(map[string]bool)
	_, err := findGoFiles(".", true, func(content string) bool {
		for _, m := range importRe.FindAllStringSubmatch(content, -1) {
			imports[m[1]+m[2]] = true
		}
		return false
	})
	if err != nil {
		t.Fatalf("scan repository: %v", err)
	}

	for _, module := range directRequires(readGoMod(t)) {
		used := false
		for path := range imports {
			if path == module || strings.HasPrefix(path, module+"/") {
				used = true
				break
			}
		}
		if !used {
			t.Errorf("%s is a direct requirement but nothing imports it", module)
		}
	}
}

func TestModulePath_NoStaleImports(t *testing.T) {
	matches, err := findGoFiles(".", false, hasStaleImport)
	if err != nil {
		t.Fatalf("scan repository: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("imports of the old module path found in: %v", matches)
	}

	if !hasStaleImport(`import "github.com/simp-lee/gobase/internal/pkg"`) {
		t.Fatal("stale import fixture not detected")
	}
}

var importRe = regexp.MustCompile(`(?m)^\s*(?:[\w.]+\s+)?"([^"]+)"\s*$|import\s+(?:[\w.]+\s+)?"([^"]+)"`)

func readGoMod(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("go.mod")
	if err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	return string(b)
}

func moduleRequired(goModContent, module string) bool {
	re := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(module) + `\s+v\S+`)
	return re.MatchString(goModContent)
}

// directRequires lists the modules in go.mod require blocks that are not
// marked indirect.
func directRequires(goModContent string) []string {
	var out []string
	inBlock := false
	for _, line := range strings.Split(goModContent, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "require (":
			inBlock = true
		case line == ")":
			inBlock = false
		case inBlock && line != "" && !strings.Contains(line, "// indirect"):
			out = append(out, strings.Fields(line)[0])
		}
	}
	return out
}

// findGoFiles returns the Go files under root whose content matches.
// Directories starting with "_" or "." are skipped like the go tool does.
func findGoFiles(root string, withTests bool, match func(string) bool) ([]string, error) {
	matches := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || (!withTests && strings.HasSuffix(path, "_test.go")) {
			return nil
		}
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		if match(string(b)) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func hasStaleImport(content string) bool {
	return strings.Contains(content, `"github.com/simp-lee/gobase/`)
}
