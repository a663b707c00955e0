package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSetupWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kart.log")

	log, closer, err := Setup(Options{File: path, Level: "debug", Fields: logrus.Fields{"session": "abc"}})
	require.NoError(t, err)

	log.WithField("component", "test").Debug("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", gjson.GetBytes(data, "msg").String())
	assert.Equal(t, "debug", gjson.GetBytes(data, "level").String())
	assert.Equal(t, "abc", gjson.GetBytes(data, "session").String())
	assert.Equal(t, "test", gjson.GetBytes(data, "component").String())
}

func TestSetupWithoutFileDiscards(t *testing.T) {
	log, closer, err := Setup(Options{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.Logger.GetLevel())
	assert.NoError(t, closer.Close())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" warn ")
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)

	_, _, err = Setup(Options{Level: "loud"})
	assert.Error(t, err)
}
