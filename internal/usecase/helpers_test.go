package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// HTTPErrorの実装詳細に依存しないエラー比較ヘルパ
func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
