package wiener

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

// KeyParser defines the interface for parsing RSA public keys from various sources.
type KeyParser interface {
	// ParseKeys parses public keys from a source and returns them.
	ParseKeys(source string) ([]*PublicKey, error)
}

// ParserForFile returns a parser for the given format ("json", "csv", "pem",
// "ssh"). With format "auto" or "" the file extension decides.
func ParserForFile(path, format string) (KeyParser, error) {
	if format == "" || format == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = "json"
		case ".csv":
			format = "csv"
		case ".pem", ".key", ".crt":
			format = "pem"
		case ".pub":
			format = "ssh"
		default:
			return nil, errors.Errorf("cannot detect key format from %q", path)
		}
	}

	switch format {
	case "json":
		return &JSONParser{}, nil
	case "csv":
		return &CSVParser{}, nil
	case "pem":
		return &PEMParser{}, nil
	case "ssh":
		return &SSHParser{}, nil
	default:
		return nil, errors.Errorf("unsupported key format: %s", format)
	}
}

// JSONParser parses public keys from JSON files.
type JSONParser struct {
	NField    string // Field name for the modulus (default: "n")
	EField    string // Field name for the public exponent (default: "e")
	NameField string // Field name for the key label (default: "name")
}

// ParseKeys parses public keys from a JSON file.
//
// Expected format, either a single object or an array of them:
// [
//
//	{"name": "...", "n": "...", "e": "..."},
//	{"n": "0x...", "e": 65537}
//
// ]
func (p *JSONParser) ParseKeys(jsonFile string) ([]*PublicKey, error) {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}

	nField := p.NField
	if nField == "" {
		nField = "n"
	}
	eField := p.EField
	if eField == "" {
		eField = "e"
	}
	nameField := p.NameField
	if nameField == "" {
		nameField = "name"
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64

	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse JSON")
	}

	var items []map[string]interface{}
	switch v := raw.(type) {
	case []interface{}:
		for i, entry := range v {
			item, ok := entry.(map[string]interface{})
			if !ok {
				return nil, errors.Errorf("entry %d is not an object", i)
			}
			items = append(items, item)
		}
	case map[string]interface{}:
		items = append(items, v)
	default:
		return nil, errors.New("expected a JSON object or array of objects")
	}

	keys := make([]*PublicKey, 0, len(items))
	for i, item := range items {
		nVal, ok := item[nField]
		if !ok {
			return nil, errors.Errorf("entry %d: missing %s field", i, nField)
		}
		n, err := parseBigInt(nVal)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d: failed to parse %s", i, nField)
		}

		eVal, ok := item[eField]
		if !ok {
			return nil, errors.Errorf("entry %d: missing %s field", i, eField)
		}
		e, err := parseBigInt(eVal)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d: failed to parse %s", i, eField)
		}

		pub := &PublicKey{N: n, E: e}
		if name, ok := item[nameField].(string); ok {
			pub.Label = name
		}
		keys = append(keys, pub)
	}

	return keys, nil
}

// CSVParser parses public keys from CSV files with a header row.
type CSVParser struct {
	NCol    string // Column name for the modulus (default: "n")
	ECol    string // Column name for the public exponent (default: "e")
	NameCol string // Column name for the key label (default: "name")
}

// ParseKeys parses public keys from a CSV file.
func (p *CSVParser) ParseKeys(csvFile string) ([]*PublicKey, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	nCol := p.NCol
	if nCol == "" {
		nCol = "n"
	}
	eCol := p.ECol
	if eCol == "" {
		eCol = "e"
	}
	nameCol := p.NameCol
	if nameCol == "" {
		nameCol = "name"
	}

	nIdx, eIdx, nameIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case nCol:
			nIdx = i
		case eCol:
			eIdx = i
		case nameCol:
			nameIdx = i
		}
	}

	if nIdx == -1 || eIdx == -1 {
		return nil, errors.Errorf("missing required columns: %s or %s", nCol, eCol)
	}

	keys := make([]*PublicKey, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read record")
		}

		if nIdx >= len(record) || eIdx >= len(record) {
			return nil, errors.Errorf("line %d: column index out of range", line)
		}
		n, err := parseBigInt(record[nIdx])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: failed to parse %s", line, nCol)
		}
		e, err := parseBigInt(record[eIdx])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: failed to parse %s", line, eCol)
		}

		pub := &PublicKey{N: n, E: e}
		if nameIdx >= 0 && nameIdx < len(record) {
			pub.Label = record[nameIdx]
		}
		keys = append(keys, pub)
	}

	return keys, nil
}

// PEMParser parses "PUBLIC KEY" (PKIX) and "RSA PUBLIC KEY" (PKCS#1) blocks.
// A file may hold several blocks; other block types are skipped.
type PEMParser struct{}

// ParseKeys parses public keys from a PEM file.
func (p *PEMParser) ParseKeys(pemFile string) ([]*PublicKey, error) {
	data, err := os.ReadFile(pemFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}

	var keys []*PublicKey
	for rest := data; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		var pub *PublicKey
		switch block.Type {
		case pemTypePKIX:
			pub, err = parsePKIXPublicKey(block.Bytes)
		case pemTypePKCS1:
			pub, err = parsePKCS1PublicKey(block.Bytes)
		default:
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", len(keys))
		}
		pub.Label = fmt.Sprintf("%s#%d", filepath.Base(pemFile), len(keys))
		keys = append(keys, pub)
	}

	if len(keys) == 0 {
		return nil, errors.New("no RSA public key found in PEM data")
	}
	return keys, nil
}

// SSHParser parses OpenSSH authorized_keys style lines ("ssh-rsa AAAA... comment").
// Lines of other key types, blanks and comments are skipped.
type SSHParser struct{}

// ParseKeys parses public keys from an OpenSSH public key file.
func (p *SSHParser) ParseKeys(sshFile string) ([]*PublicKey, error) {
	file, err := os.Open(sshFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	var keys []*PublicKey
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		pub, err := parseAuthorizedKeyLine(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if pub != nil {
			keys = append(keys, pub)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}

	if len(keys) == 0 {
		return nil, errors.New("no ssh-rsa key found")
	}
	return keys, nil
}

// sshRSAKey is the wire layout of an ssh-rsa public key blob (RFC 4253 §6.6).
// ssh.ParseAuthorizedKey refuses exponents wider than 24 bits, which rules out
// every key this package is interested in, so the blob is decoded directly.
type sshRSAKey struct {
	Name string
	E    *big.Int
	N    *big.Int
	Rest []byte `ssh:"rest"`
}

// parseAuthorizedKeyLine returns nil, nil for lines holding a non-RSA key.
func parseAuthorizedKeyLine(text string) (*PublicKey, error) {
	fields := strings.Fields(text)

	// Options may precede the key type.
	typeIdx := -1
	for i, f := range fields {
		if f == ssh.KeyAlgoRSA {
			typeIdx = i
			break
		}
	}
	if typeIdx == -1 {
		return nil, nil
	}
	if typeIdx+1 >= len(fields) {
		return nil, errors.New("missing key data")
	}

	blob, err := base64.StdEncoding.DecodeString(fields[typeIdx+1])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode key data")
	}

	var w sshRSAKey
	if err := ssh.Unmarshal(blob, &w); err != nil {
		return nil, errors.Wrap(err, "failed to parse ssh-rsa key")
	}
	if w.Name != ssh.KeyAlgoRSA {
		return nil, errors.Errorf("key blob has type %q", w.Name)
	}

	pub := &PublicKey{N: w.N, E: w.E}
	if len(fields) > typeIdx+2 {
		pub.Label = strings.Join(fields[typeIdx+2:], " ")
	}
	return pub, nil
}

// ParseBigInt parses a big integer from a decimal or hex string. Hex needs a
// 0x prefix or at least one hex letter.
func ParseBigInt(s string) (*big.Int, error) {
	return parseBigInt(s)
}

// parseBigInt parses a big integer from various formats (hex string, decimal string, number).
func parseBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s = s[2:]
			base = 16
		} else if strings.ContainsAny(s, "abcdefABCDEF") {
			base = 16
		}

		if base == 16 {
			if len(s)%2 != 0 {
				s = "0" + s
			}
			raw, err := hex.DecodeString(s)
			if err != nil {
				return nil, errors.Errorf("invalid hex number: %s", v)
			}
			return new(big.Int).SetBytes(raw), nil
		}

		z := new(big.Int)
		if _, ok := z.SetString(s, 10); !ok {
			return nil, errors.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case json.Number:
		z := new(big.Int)
		if _, ok := z.SetString(string(v), 10); !ok {
			return nil, errors.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case float64:
		s := fmt.Sprintf("%.0f", v)
		z := new(big.Int)
		if _, ok := z.SetString(s, 10); !ok {
			return nil, errors.Errorf("invalid number format: %v", v)
		}
		return z, nil

	case int64:
		return big.NewInt(v), nil

	case int:
		return big.NewInt(int64(v)), nil

	default:
		return nil, errors.Errorf("unsupported type: %T", val)
	}
}
