package contracts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersionString(t *testing.T) {
	s := GetFullVersionString("nycsales")
	assert.True(t, strings.HasPrefix(s, "nycsales "+Version+" "))
	assert.Contains(t, s, runtime.GOOS+"/"+runtime.GOARCH)
	assert.Contains(t, s, "data format: "+DataFormatVersion)
}
