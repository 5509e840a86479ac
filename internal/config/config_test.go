package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		description string
		env         map[string]string
		dotEnv      string
		expect      Config
		expectErr   bool
	}{
		{
			description: "defaults",
			expect: Config{
				BaseURL:    "http://localhost:4000/api/v1",
				Timeout:    30 * time.Second,
				LoginRoute: "/login",
			},
		},
		{
			description: "environment overrides",
			env: map[string]string{
				"LMS_BASEURL":   "https://lms.example.com/api/v1",
				"LMS_TIMEOUT":   "5s",
				"LMS_REDISADDR": "localhost:6379",
				"LMS_DEBUG":     "true",
			},
			expect: Config{
				BaseURL:    "https://lms.example.com/api/v1",
				Timeout:    5 * time.Second,
				RedisAddr:  "localhost:6379",
				LoginRoute: "/login",
				Debug:      true,
			},
		},
		{
			description: "dot env file",
			dotEnv:      "LMS_HINTID=abc\nLMS_LOGINROUTE=/signin\n",
			expect: Config{
				BaseURL:    "http://localhost:4000/api/v1",
				Timeout:    30 * time.Second,
				HintID:     "abc",
				LoginRoute: "/signin",
			},
		},
		{
			description: "invalid timeout",
			env:         map[string]string{"LMS_TIMEOUT": "-1s"},
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			for _, key := range []string{"LMS_BASEURL", "LMS_TIMEOUT", "LMS_REDISADDR", "LMS_HINTID", "LMS_LOGINROUTE", "LMS_SECRET", "LMS_DEBUG"} {
				t.Setenv(key, "")
				require.NoError(t, os.Unsetenv(key))
			}
			for key, value := range testCase.env {
				t.Setenv(key, value)
			}
			dotEnvPath := ""
			if testCase.dotEnv != "" {
				dotEnvPath = filepath.Join(t.TempDir(), ".env")
				require.NoError(t, os.WriteFile(dotEnvPath, []byte(testCase.dotEnv), 0o600))
				t.Cleanup(func() {
					_ = os.Unsetenv("LMS_HINTID")
					_ = os.Unsetenv("LMS_LOGINROUTE")
				})
			}
			actual, err := Load(dotEnvPath)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, *actual)
		})
	}
}
