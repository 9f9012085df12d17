package domain

import (
	"fmt"
	"strings"
)

// Icon is the closed set of icons a skill or link may reference. Unknown
// values are rejected when an entity is validated.
type Icon string

const (
	IconNone       Icon = ""
	IconCode       Icon = "code"
	IconDatabase   Icon = "database"
	IconServer     Icon = "server"
	IconCloud      Icon = "cloud"
	IconTerminal   Icon = "terminal"
	IconMobile     Icon = "mobile"
	IconDesign     Icon = "design"
	IconGit        Icon = "git"
	IconDocker     Icon = "docker"
	IconKubernetes Icon = "kubernetes"
	IconGo         Icon = "go"
	IconPython     Icon = "python"
	IconJavaScript Icon = "javascript"
	IconTypeScript Icon = "typescript"
	IconReact      Icon = "react"
	IconGithub     Icon = "github"
	IconLinkedIn   Icon = "linkedin"
	IconMail       Icon = "mail"
	IconGlobe      Icon = "globe"
)

var icons = []Icon{
	IconCode, IconDatabase, IconServer, IconCloud, IconTerminal, IconMobile,
	IconDesign, IconGit, IconDocker, IconKubernetes, IconGo, IconPython,
	IconJavaScript, IconTypeScript, IconReact, IconGithub, IconLinkedIn,
	IconMail, IconGlobe,
}

// Icons returns every known icon, in declaration order.
func Icons() []Icon {
	out := make([]Icon, len(icons))
	copy(out, icons)
	return out
}

// Valid reports whether i is empty or a known icon.
func (i Icon) Valid() bool {
	if i == IconNone {
		return true
	}
	for _, known := range icons {
		if i == known {
			return true
		}
	}
	return false
}

// ParseIcon normalizes s and returns the matching icon.
func ParseIcon(s string) (Icon, error) {
	i := Icon(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return IconNone, NewValidationError(map[string]string{"icon": fmt.Sprintf("oneof=%s", iconList())})
	}
	return i, nil
}

// Class returns the CSS class used by the public templates.
func (i Icon) Class() string {
	switch i {
	case IconNone:
		return "icon icon-default"
	case IconGo, IconPython, IconJavaScript, IconTypeScript:
		return "icon icon-lang icon-" + string(i)
	case IconGithub, IconLinkedIn, IconMail, IconGlobe:
		return "icon icon-social icon-" + string(i)
	default:
		return "icon icon-" + string(i)
	}
}

func iconList() string {
	parts := make([]string, len(icons))
	for n, i := range icons {
		parts[n] = string(i)
	}
	return strings.Join(parts, " ")
}
