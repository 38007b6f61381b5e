package classify

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

func TestRulesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRules(&buf, DefaultRules()))
	assert.True(t, strings.HasPrefix(buf.String(), "prefix,classification\n"))

	got, err := ReadRules(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), got)
}

func TestReadRules_InvalidClassification(t *testing.T) {
	_, err := ReadRules(strings.NewReader("prefix,classification\n300,bs_fixed_asset\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidClassification)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadRules_EmptyPrefix(t *testing.T) {
	_, err := ReadRules(strings.NewReader("prefix,classification\n ,bs_equity\n"))
	assert.Error(t, err)
}

func TestReadRules_CommentsAndEmpty(t *testing.T) {
	rules, err := ReadRules(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rules)

	rules, err = ReadRules(strings.NewReader("prefix,classification\n# local chart\n1, bs_current_asset\n"))
	require.NoError(t, err)
	assert.Equal(t, Rules{{Prefix: "1", Classification: model.CurrentAsset}}, rules)
}

func TestSaveLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), RulesFile)
	require.NoError(t, SaveRules(path, DefaultRules()))

	got, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), got)
}

func TestLoadRulesOrDefault(t *testing.T) {
	dir := t.TempDir()

	got, err := LoadRulesOrDefault(filepath.Join(dir, "missing.csv"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), got)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("prefix,classification\n1,nope\n"), 0o644))
	_, err = LoadRulesOrDefault(bad)
	assert.Error(t, err)
}
