package wiener

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client provides a high-level API for Wiener key recovery operations.
type Client struct {
	strategy AttackStrategy
	parser   KeyParser
	log      logrus.FieldLogger
}

// NewClient creates a new client with default settings.
func NewClient() *Client {
	return &Client{
		strategy: NewSequentialStrategy(),
		parser:   &JSONParser{},
		log:      logrus.StandardLogger(),
	}
}

// WithStrategy sets a custom attack strategy.
func (c *Client) WithStrategy(strategy AttackStrategy) *Client {
	c.strategy = strategy
	return c
}

// WithParser sets a custom key parser.
func (c *Client) WithParser(parser KeyParser) *Client {
	c.parser = parser
	return c
}

// WithLogger sets the logger used for progress messages.
func (c *Client) WithLogger(log logrus.FieldLogger) *Client {
	c.log = log
	return c
}

// KeyReport is the outcome for one key of a batch.
type KeyReport struct {
	PublicKey *PublicKey
	Result    *RecoveryResult // nil unless the key was recovered
	Err       error           // ErrNotVulnerable, ErrInvalidInput or a strategy error
}

// Vulnerable reports whether the key was recovered.
func (r *KeyReport) Vulnerable() bool {
	return r.Result != nil
}

// RecoverKey attempts to recover the private key of the first public key in a file.
//
// Args:
//   - ctx: Context for cancellation.
//   - source: Path to the key file, read with the client's parser.
//
// Returns:
//   - RecoveryResult if successful, error otherwise. errors.Is(err, ErrNotVulnerable)
//     reports a key outside Wiener's bound.
func (c *Client) RecoverKey(ctx context.Context, source string) (*RecoveryResult, error) {
	keys, err := c.parser.ParseKeys(source)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse keys")
	}
	if len(keys) == 0 {
		return nil, errors.Errorf("no public key found in %s", source)
	}
	if len(keys) > 1 {
		c.log.WithField("keys", len(keys)).Warn("source holds several keys, attacking the first one")
	}
	return c.RecoverKeyFromPublicKey(ctx, keys[0])
}

// RecoverKeys attacks every public key in a file and reports each outcome.
// Only parse failures and cancellation abort the batch.
func (c *Client) RecoverKeys(ctx context.Context, source string) ([]*KeyReport, error) {
	keys, err := c.parser.ParseKeys(source)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse keys")
	}

	reports := make([]*KeyReport, 0, len(keys))
	for _, pub := range keys {
		result, err := c.RecoverKeyFromPublicKey(ctx, pub)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return reports, ctxErr
		}
		reports = append(reports, &KeyReport{PublicKey: pub, Result: result, Err: err})
	}

	recovered := 0
	for _, r := range reports {
		if r.Vulnerable() {
			recovered++
		}
	}
	c.log.WithFields(logrus.Fields{"keys": len(reports), "recovered": recovered}).Info("batch finished")

	return reports, nil
}

// RecoverKeyFromModulus attempts to recover a private key from N and e given
// as decimal or hex strings.
func (c *Client) RecoverKeyFromModulus(ctx context.Context, nStr, eStr string) (*RecoveryResult, error) {
	n, err := ParseBigInt(nStr)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}
	e, err := ParseBigInt(eStr)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}
	return c.RecoverKeyFromPublicKey(ctx, &PublicKey{N: n, E: e})
}

// RecoverKeyFromPublicKey attempts to recover the private key of an in-memory public key.
// Use this when you have already parsed the key (e.g. from your own parser or API).
func (c *Client) RecoverKeyFromPublicKey(ctx context.Context, pub *PublicKey) (*RecoveryResult, error) {
	if err := pub.Validate(); err != nil {
		return nil, err
	}

	log := c.log.WithFields(logrus.Fields{
		"key":      pub.Label,
		"bits":     pub.N.BitLen(),
		"strategy": c.strategy.Name(),
	})
	log.Info("starting Wiener attack")

	result, err := c.strategy.Search(ctx, pub)
	if err != nil {
		if errors.Is(err, ErrNotVulnerable) {
			log.Info("no convergent verified, key is not vulnerable")
		}
		return nil, err
	}

	verified, err := VerifyRecoveredKey(pub, result.Key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify recovered key")
	}
	result.Verified = verified
	if result.Strategy == "" {
		result.Strategy = c.strategy.Name()
	}

	log.WithFields(logrus.Fields{
		"index":    result.Index,
		"tried":    result.Tried,
		"verified": result.Verified,
	}).Info("private exponent recovered")

	return result, nil
}
