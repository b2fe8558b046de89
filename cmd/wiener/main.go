// Command wiener checks RSA public keys for small private exponents and
// recovers d, p and q when Wiener's attack applies.
package main

func main() {
	Execute()
}
