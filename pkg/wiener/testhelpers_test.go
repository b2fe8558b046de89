package wiener

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the path of the shared test vectors.
func fixturesDir() string {
	return filepath.Join("..", "..", "fixtures")
}

// keyInfo is the private half of a fixture key.
type keyInfo struct {
	D *big.Int
	P *big.Int
	Q *big.Int
}

// loadTestKeyInfo reads the private key material from fixtures/test_key_info.json,
// keyed by the fixture name.
func loadTestKeyInfo(t *testing.T) map[string]keyInfo {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(fixturesDir(), "test_key_info.json"))
	require.NoError(t, err)

	var raw map[string]struct {
		D string `json:"d"`
		P string `json:"p"`
		Q string `json:"q"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))

	info := make(map[string]keyInfo, len(raw))
	for name, k := range raw {
		info[name] = keyInfo{D: mustBig(t, k.D), P: mustBig(t, k.P), Q: mustBig(t, k.Q)}
	}
	return info
}

// loadTestKeys loads public keys from a fixture file, picking the parser by extension.
func loadTestKeys(t *testing.T, filename string) []*PublicKey {
	t.Helper()

	path := filepath.Join(fixturesDir(), filename)
	parser, err := ParserForFile(path, "auto")
	require.NoError(t, err)
	keys, err := parser.ParseKeys(path)
	require.NoError(t, err)
	return keys
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()

	z, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "invalid integer %q", s)
	return z
}

func toyKey() *PublicKey {
	return &PublicKey{N: big.NewInt(90581), E: big.NewInt(17993), Label: "toy_90581"}
}

func int64s(xs []*big.Int) []int64 {
	out := make([]int64, len(xs))
	for i, x := range xs {
		out[i] = x.Int64()
	}
	return out
}
