package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/rsa-wiener/internal/keygen"
	"github.com/mahdiidarabi/rsa-wiener/pkg/wiener"
)

var (
	genBits        int
	genStandard    bool
	genFormat      string
	genOut         string
	genName        string
	genShowPrivate bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an RSA keypair vulnerable to Wiener's attack",
	Long: `Generate an RSA keypair with a deliberately small private exponent
(d < N^1/4 / 3), for demonstrations and test vectors. With --standard the
key uses e = 65537 instead and resists the attack.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&genBits, "bits", "b", 1024, "Modulus size in bits")
	generateCmd.Flags().BoolVar(&genStandard, "standard", false, "Generate a key with e = 65537 (not vulnerable)")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "json", "Output format (json, pem, ssh)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Write the public key to this file instead of stdout")
	generateCmd.Flags().StringVar(&genName, "name", "", "Label stored with the key")
	generateCmd.Flags().BoolVar(&genShowPrivate, "show-private", false, "Include d, p and q (JSON only)")
}

type generatedKey struct {
	Name string `json:"name,omitempty"`
	N    string `json:"n"`
	E    string `json:"e"`
	D    string `json:"d,omitempty"`
	P    string `json:"p,omitempty"`
	Q    string `json:"q,omitempty"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	generate := keygen.GenerateVulnerable
	if genStandard {
		generate = keygen.GenerateStandard
	}

	key, err := generate(rand.Reader, genBits)
	if err != nil {
		return err
	}
	logger.WithField("bits", key.N.BitLen()).Debug("generated keypair")

	pub := &wiener.PublicKey{N: key.N, E: key.E, Label: genName}

	var out []byte
	switch genFormat {
	case "json":
		gk := generatedKey{Name: genName, N: key.N.String(), E: key.E.String()}
		if genShowPrivate {
			gk.D, gk.P, gk.Q = key.D.String(), key.P.String(), key.Q.String()
		}
		out, err = json.MarshalIndent(gk, "", "  ")
		out = append(out, '\n')
	case "pem":
		out, err = wiener.EncodePEM(pub)
	case "ssh":
		out, err = wiener.EncodeAuthorizedKey(pub)
	default:
		return errors.Errorf("unsupported output format: %s", genFormat)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode key")
	}

	if genOut == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(genOut, out, 0o644); err != nil {
		return errors.Wrap(err, "failed to write key")
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("[+] Wrote %d-bit public key to %s", key.N.BitLen(), genOut)))
	if genShowPrivate && genFormat != "json" {
		fmt.Println(field("d", key.D))
	}
	return nil
}
