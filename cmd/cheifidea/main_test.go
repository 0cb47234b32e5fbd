package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_ENABLED", "false")
}

func TestBoot_MemoryStoreWithoutRedis(t *testing.T) {
	useMemoryStore(t)

	a, err := boot("cheifidea-test")
	require.NoError(t, err)
	defer a.Close()

	assert.NoError(t, a.migrate(context.Background()))
	assert.Nil(t, a.reviewCache())
	assert.Nil(t, a.ratingCache())
	assert.Nil(t, a.analyticsCache())
	assert.Nil(t, a.consumer(nil).Analytics)
}

func TestBoot_InvalidConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := boot("cheifidea-test")
	assert.Error(t, err)
}

func TestAdminCreateCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing_flag",
			args:    []string{"admin", "create", "--email", "root@example.com"},
			wantErr: "password",
		},
		{
			name: "created",
			args: []string{"admin", "create", "--email", "root@example.com", "--password", "secret1"},
		},
		{
			name:    "invalid_email",
			args:    []string{"admin", "create", "--email", "root", "--password", "secret1"},
			wantErr: "Validation failed",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			useMemoryStore(t)
			adminEmail, adminPassword = "", ""

			rootCmd.SetArgs(testCase.args)
			err := rootCmd.Execute()

			if testCase.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}
