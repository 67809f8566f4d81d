package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdocs/employee-onboarding-sub012/internal/app"
	"github.com/shipdocs/employee-onboarding-sub012/internal/config"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/usecase"
)

func newTestContainer(t *testing.T) *app.Container {
	t.Helper()
	container := app.NewContainer(&config.Config{
		LogLevel:               "error",
		Algorithm:              "aes-gcm",
		CacheCapacity:          16,
		CacheMaxPlaintextBytes: 1024,
		SearchHashSalt:         "test-salt",
	})
	t.Cleanup(func() { _ = container.Shutdown(context.Background()) })
	return container
}

func newCommandUseCase(t *testing.T) usecase.FieldEncryptionUseCase {
	t.Helper()
	useCase, err := newTestContainer(t).FieldEncryption(context.Background())
	require.NoError(t, err)
	return useCase
}

func testIO() (IOTuple, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return IOTuple{Reader: strings.NewReader(""), Writer: out}, out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunEncryptAndDecrypt(t *testing.T) {
	ctx := context.Background()
	useCase := newCommandUseCase(t)

	encIO, encOut := testIO()
	require.NoError(t, RunEncrypt(ctx, useCase, encIO, "jane@example.com", "employee.email"))

	var payload domain.EncryptedPayload
	require.NoError(t, json.Unmarshal(encOut.Bytes(), &payload))
	assert.Equal(t, uint32(1), payload.Version)
	assert.Equal(t, "employee.email", payload.Context)

	decIO, decOut := testIO()
	require.NoError(t, RunDecrypt(ctx, useCase, decIO, strings.TrimSpace(encOut.String())))
	assert.Equal(t, "jane@example.com\n", decOut.String())
}

func TestRunDecrypt_InvalidJSON(t *testing.T) {
	useCase := newCommandUseCase(t)
	decIO, _ := testIO()

	err := RunDecrypt(context.Background(), useCase, decIO, "{not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse payload")
}

func TestRunReencrypt(t *testing.T) {
	ctx := context.Background()
	useCase := newCommandUseCase(t)

	encIO, encOut := testIO()
	require.NoError(t, RunEncrypt(ctx, useCase, encIO, "migrate me", ""))

	rotIO, _ := testIO()
	require.NoError(t, RunRotateKey(ctx, useCase, testLogger(), rotIO))

	reIO, reOut := testIO()
	require.NoError(t, RunReencrypt(ctx, useCase, testLogger(), reIO, strings.TrimSpace(encOut.String())))

	var fresh domain.EncryptedPayload
	require.NoError(t, json.Unmarshal(reOut.Bytes(), &fresh))
	assert.Equal(t, uint32(2), fresh.Version)

	decIO, decOut := testIO()
	require.NoError(t, RunDecrypt(ctx, useCase, decIO, strings.TrimSpace(reOut.String())))
	assert.Equal(t, "migrate me\n", decOut.String())
}

func TestRunSearchHash(t *testing.T) {
	ctx := context.Background()
	useCase := newCommandUseCase(t)

	firstIO, firstOut := testIO()
	require.NoError(t, RunSearchHash(ctx, useCase, firstIO, "a@b.com"))
	secondIO, secondOut := testIO()
	require.NoError(t, RunSearchHash(ctx, useCase, secondIO, "a@b.com"))

	digest := strings.TrimSpace(firstOut.String())
	assert.Regexp(t, "^[0-9a-f]{64}$", digest)
	assert.Equal(t, firstOut.String(), secondOut.String())
}

func TestRunRotateKey(t *testing.T) {
	ctx := context.Background()
	useCase := newCommandUseCase(t)

	rotIO, out := testIO()
	require.NoError(t, RunRotateKey(ctx, useCase, testLogger(), rotIO))
	assert.Contains(t, out.String(), "rotated to key version: 2")
}

func TestRunInitKeys(t *testing.T) {
	ctx := context.Background()
	container := newTestContainer(t)

	keyManager, err := container.KeyManager(ctx)
	require.NoError(t, err)

	initIO, out := testIO()
	require.NoError(t, RunInitKeys(ctx, keyManager, testLogger(), initIO))
	assert.Contains(t, out.String(), "current key version: 1 (aes-gcm)")
}
