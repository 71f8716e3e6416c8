package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, prefix := range []string{"version: ", "commit: ", "built: "} {
		if !strings.Contains(s, prefix) {
			t.Errorf("String() missing %q: %q", prefix, s)
		}
	}
}

func TestTemplate(t *testing.T) {
	tpl := Template()
	if !strings.HasPrefix(tpl, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", tpl)
	}
}

func TestUserAgent(t *testing.T) {
	if ua := UserAgent(); ua != "slidegraph/"+Version {
		t.Errorf("UserAgent() = %q", ua)
	}
}
