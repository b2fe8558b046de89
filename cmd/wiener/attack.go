package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/rsa-wiener/pkg/wiener"
)

var (
	keyFile        string
	keyFormat      string
	modulus        string
	exponent       string
	attackAll      bool
	parallel       bool
	numWorkers     int
	maxConvergents int
	jsonOutput     bool
)

var attackCmd = &cobra.Command{
	Use:   "attack",
	Short: "Run Wiener's attack against one or more public keys",
	Example: `  wiener attack --n 90581 --e 17993
  wiener attack --key id_rsa.pub
  wiener attack --key keys.csv --all --json`,
	RunE: runAttack,
}

func init() {
	rootCmd.AddCommand(attackCmd)

	attackCmd.Flags().StringVarP(&keyFile, "key", "k", "", "Path to a public key file (JSON, CSV, PEM or OpenSSH)")
	attackCmd.Flags().StringVarP(&keyFormat, "format", "f", "auto", "Key file format (auto, json, csv, pem, ssh)")
	attackCmd.Flags().StringVar(&modulus, "n", "", "Modulus N (decimal or 0x-prefixed hex)")
	attackCmd.Flags().StringVar(&exponent, "e", "", "Public exponent e (decimal or 0x-prefixed hex)")
	attackCmd.Flags().BoolVar(&attackAll, "all", false, "Attack every key in the file instead of the first")
	attackCmd.Flags().BoolVar(&parallel, "parallel", false, "Verify convergents on a worker pool")
	attackCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of parallel workers (0 = auto-detect based on CPU cores)")
	attackCmd.Flags().IntVar(&maxConvergents, "max-convergents", 0, "Stop after this many convergents (0 = all)")
	attackCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	attackCmd.MarkFlagsRequiredTogether("n", "e")
	attackCmd.MarkFlagsMutuallyExclusive("key", "n")
}

func runAttack(cmd *cobra.Command, args []string) error {
	if keyFile == "" && modulus == "" {
		return errors.New("either --key or --n/--e is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config := wiener.ScanConfig{MaxConvergents: maxConvergents, NumWorkers: numWorkers}
	var strategy wiener.AttackStrategy = wiener.NewSequentialStrategy().WithScanConfig(config)
	if parallel {
		strategy = wiener.NewParallelStrategy().WithScanConfig(config)
	}
	client := wiener.NewClient().WithStrategy(strategy).WithLogger(logger)

	var reports []*wiener.KeyReport
	switch {
	case modulus != "":
		result, err := client.RecoverKeyFromModulus(ctx, modulus, exponent)
		if err != nil && !errors.Is(err, wiener.ErrNotVulnerable) {
			return err
		}
		reports = append(reports, &wiener.KeyReport{Result: result, Err: err})

	default:
		parser, err := wiener.ParserForFile(keyFile, keyFormat)
		if err != nil {
			return err
		}
		client = client.WithParser(parser)

		if attackAll {
			reports, err = client.RecoverKeys(ctx, keyFile)
			if err != nil {
				return err
			}
		} else {
			result, err := client.RecoverKey(ctx, keyFile)
			if err != nil && !errors.Is(err, wiener.ErrNotVulnerable) {
				return err
			}
			reports = append(reports, &wiener.KeyReport{Result: result, Err: err})
		}
	}

	if jsonOutput {
		if err := printJSON(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			printReport(r)
		}
	}

	for _, r := range reports {
		if r.Vulnerable() {
			return nil
		}
	}
	return wiener.ErrNotVulnerable
}

// reportKey returns the attacked key, which single-key runs only carry on the result.
func reportKey(r *wiener.KeyReport) *wiener.PublicKey {
	if r.PublicKey == nil && r.Result != nil {
		return r.Result.PublicKey
	}
	return r.PublicKey
}

func printReport(r *wiener.KeyReport) {
	name := ""
	if pub := reportKey(r); pub != nil && pub.Label != "" {
		name = " " + pub.Label
	}

	if !r.Vulnerable() {
		if errors.Is(r.Err, wiener.ErrNotVulnerable) {
			fmt.Println(WarningStyle.Render("[-] Wiener's attack failed" + name + ": key is not vulnerable"))
		} else {
			fmt.Println(ErrorStyle.Render(fmt.Sprintf("[-] Skipped%s: %v", name, r.Err)))
		}
		return
	}

	res := r.Result
	fmt.Println(SuccessStyle.Render("[+] Recovered private key" + name))
	fmt.Println(field("p", res.Key.P))
	fmt.Println(field("q", res.Key.Q))
	fmt.Println(field("d", res.Key.D))
	fmt.Println(field("φ(N)", res.Key.Phi()))
	fmt.Println(field("k/d", fmt.Sprintf("%s/%s (convergent %d, %d tried)", res.Convergent.K, res.Convergent.D, res.Index, res.Tried)))
	if res.Verified {
		fmt.Println("    " + SuccessStyle.Render("✓ e·d ≡ 1 (mod φ(N))"))
	}
}

type jsonReport struct {
	Name       string `json:"name,omitempty"`
	Bits       int    `json:"bits,omitempty"`
	Vulnerable bool   `json:"vulnerable"`
	D          string `json:"d,omitempty"`
	P          string `json:"p,omitempty"`
	Q          string `json:"q,omitempty"`
	Phi        string `json:"phi,omitempty"`
	Index      int    `json:"convergent_index,omitempty"`
	Tried      int    `json:"tried,omitempty"`
	Verified   bool   `json:"verified,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
	Error      string `json:"error,omitempty"`
}

func printJSON(reports []*wiener.KeyReport) error {
	out := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		jr := jsonReport{Vulnerable: r.Vulnerable()}
		if pub := reportKey(r); pub != nil {
			jr.Name = pub.Label
			if pub.N != nil {
				jr.Bits = pub.N.BitLen()
			}
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		if res := r.Result; res != nil {
			jr.D = res.Key.D.String()
			jr.P = res.Key.P.String()
			jr.Q = res.Key.Q.String()
			jr.Phi = res.Key.Phi().String()
			jr.Index = res.Index
			jr.Tried = res.Tried
			jr.Verified = res.Verified
			jr.Strategy = res.Strategy
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
