// Package wiener recovers RSA private keys with a small private exponent
// using Wiener's continued fraction attack.
//
// If d < N^¼/3 then k/d, where e·d = k·φ(N) + 1, is one of the convergents of
// the continued fraction of e/N. The attack expands e/N, walks its
// convergents and checks each one by solving x² - (N - φ + 1)x + N = 0 for
// the factors p and q.
//
// See "Cryptanalysis of Short RSA Secret Exponents" by Michael J. Wiener
// (IEEE Transactions on Information Theory, 1990).
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/rsa-wiener/pkg/wiener"
//
//	// Create a client with default settings
//	client := wiener.NewClient()
//
//	// Attack the first key in a JSON file
//	result, err := client.RecoverKey(ctx, "keys.json")
//	if errors.Is(err, wiener.ErrNotVulnerable) {
//	    fmt.Println("key is safe from Wiener's attack")
//	} else if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Recovered d: %s\n", result.Key.D)
//
// The core can also be used directly:
//
//	key, err := wiener.Attack(&wiener.PublicKey{N: n, E: e})
//
// # Key Sources
//
// JSONParser, CSVParser, PEMParser and SSHParser read public keys from files.
// ParserForFile picks one from a format name or the file extension:
//
//	parser, err := wiener.ParserForFile("id_rsa.pub", "auto")
//	client := wiener.NewClient().WithParser(parser)
//
// # Custom Strategies
//
// Implement the AttackStrategy interface to change how convergents are
// searched. ParallelStrategy verifies convergents on a worker pool:
//
//	strategy := wiener.NewParallelStrategy().
//	    WithScanConfig(wiener.ScanConfig{NumWorkers: 8})
//
//	client := wiener.NewClient().WithStrategy(strategy)
package wiener
