package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameValidator(t *testing.T) {
	assert.NoError(t, NameValidator("node-1.pod2"))
	assert.Error(t, NameValidator("has spaces"))
	assert.Error(t, NameValidator(""))
	assert.Error(t, NameValidator(strings.Repeat("a", 101)))
}

func TestConfigValidator(t *testing.T) {
	cfg := Cfg{}
	cfg.ApplyDefaults()
	assert.NoError(t, ConfigValidator(&cfg))

	bad := cfg
	bad.Host = ""
	assert.Error(t, ConfigValidator(&bad))

	bad = cfg
	bad.Timeout = -1
	assert.Error(t, ConfigValidator(&bad))

	bad = cfg
	bad.LogPath = "/definitely/not/a/dir/weft.log"
	assert.Error(t, ConfigValidator(&bad))
}
