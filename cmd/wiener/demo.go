package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/rsa-wiener/internal/keygen"
	"github.com/mahdiidarabi/rsa-wiener/internal/rsacipher"
	"github.com/mahdiidarabi/rsa-wiener/pkg/wiener"
)

var (
	demoBits    int
	demoMessage string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Encrypt a message to a weak key, crack the key and decrypt the message",
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().IntVarP(&demoBits, "bits", "b", 1024, "Modulus size in bits")
	demoCmd.Flags().StringVarP(&demoMessage, "message", "m", "Attack at dawn", "Message to encrypt")
}

func runDemo(cmd *cobra.Command, args []string) error {
	fmt.Println(section("Initialization"))
	key, err := keygen.GenerateVulnerable(rand.Reader, demoBits)
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("[+] Generated an RSA keypair vulnerable to Wiener's attack"))
	fmt.Println(field("N", key.N))
	fmt.Println(field("e", key.E))
	fmt.Println(field("d", key.D))

	// Only the public half is used from here on.
	pub := &wiener.PublicKey{N: key.N, E: key.E, Label: "demo"}

	fmt.Println()
	fmt.Println(section("Encryption"))
	ciphertext, err := rsacipher.Encrypt(rand.Reader, pub.N, pub.E, []byte(demoMessage))
	if err != nil {
		return err
	}
	fmt.Println(field("message", demoMessage))
	fmt.Println(field("cipher", hex.EncodeToString(ciphertext)))

	fmt.Println()
	fmt.Println(section("Cracking"))
	cf, err := wiener.Expand(pub.E, pub.N)
	if err != nil {
		return err
	}
	fmt.Printf("[+] e/N expands into %d coefficients\n", cf.Len())

	result, err := wiener.NewClient().WithLogger(logger).RecoverKeyFromPublicKey(cmd.Context(), pub)
	if err != nil {
		return errors.Wrap(err, "attack failed")
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("[+] Convergent %d worked after %d guesses", result.Index, result.Tried)))
	fmt.Println(field("p", result.Key.P))
	fmt.Println(field("q", result.Key.Q))
	fmt.Println(field("d", result.Key.D))
	fmt.Println(field("φ(N)", result.Key.Phi()))

	fmt.Println()
	fmt.Println(section("Decryption"))
	plaintext, err := rsacipher.Decrypt(pub.N, result.Key.D, ciphertext)
	if err != nil {
		return err
	}
	fmt.Println(field("message", string(plaintext)))
	return nil
}
