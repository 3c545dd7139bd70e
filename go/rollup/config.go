// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rollup

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/naoina/toml"
	"golang.org/x/exp/maps"
)

// FeeWeightDecimals is the number of fractional decimal digits of a
// FeeWeight.
const FeeWeightDecimals = 6

// FeeWeightScale is the integer representation of a weight of 1.
const FeeWeightScale = 1_000_000

// FeeWeight is an exact non-negative decimal with six fractional digits,
// stored as an integer multiple of 10^-6.
type FeeWeight uint64

// ParseFeeWeight converts a decimal string like "0.05" into a FeeWeight.
func ParseFeeWeight(s string) (FeeWeight, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid fee weight: %q", s)
	}
	if len(frac) > FeeWeightDecimals {
		return 0, fmt.Errorf("invalid fee weight %q: more than %d fractional digits", s, FeeWeightDecimals)
	}
	var integer uint64
	if whole != "" {
		var err error
		if integer, err = strconv.ParseUint(whole, 10, 64); err != nil {
			return 0, fmt.Errorf("invalid fee weight %q: %w", s, err)
		}
	}
	var fraction uint64
	if frac != "" {
		var err error
		if fraction, err = strconv.ParseUint(frac+strings.Repeat("0", FeeWeightDecimals-len(frac)), 10, 64); err != nil {
			return 0, fmt.Errorf("invalid fee weight %q: %w", s, err)
		}
	}
	if integer > (math.MaxUint64-fraction)/FeeWeightScale {
		return 0, fmt.Errorf("invalid fee weight %q: out of range", s)
	}
	return FeeWeight(integer*FeeWeightScale + fraction), nil
}

// MustParseFeeWeight is like ParseFeeWeight but panics on invalid input.
func MustParseFeeWeight(s string) FeeWeight {
	res, err := ParseFeeWeight(s)
	if err != nil {
		panic(err)
	}
	return res
}

func (w FeeWeight) String() string {
	res := strconv.FormatUint(uint64(w)/FeeWeightScale, 10)
	frac := uint64(w) % FeeWeightScale
	if frac == 0 {
		return res
	}
	digits := fmt.Sprintf("%0*d", FeeWeightDecimals, frac)
	return res + "." + strings.TrimRight(digits, "0")
}

func (w FeeWeight) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *FeeWeight) UnmarshalText(data []byte) error {
	res, err := ParseFeeWeight(string(data))
	if err != nil {
		return err
	}
	*w = res
	return nil
}

// FeeWeights maps resource names to the weight of one unit of the resource,
// expressed in L1 gas.
type FeeWeights map[string]FeeWeight

// Names lists the weighted resources in lexical order.
func (w FeeWeights) Names() []string {
	res := maps.Keys(w)
	sort.Strings(res)
	return res
}

func (w FeeWeights) Clone() FeeWeights {
	if w == nil {
		return nil
	}
	return maps.Clone(w)
}

// DefaultFeeWeights returns the weights of the VM step counter and the
// builtins of the reference VM.
func DefaultFeeWeights() FeeWeights {
	return FeeWeights{
		StepsResource:         MustParseFeeWeight("0.05"),
		"pedersen_builtin":    MustParseFeeWeight("0.4"),
		"range_check_builtin": MustParseFeeWeight("0.4"),
		"ecdsa_builtin":       MustParseFeeWeight("25.6"),
		"bitwise_builtin":     MustParseFeeWeight("12.8"),
		"output_builtin":      0,
	}
}

// BlockInfo describes the block the sandbox executes transactions in.
type BlockInfo struct {
	// BlockNumber is -1 before the first block.
	BlockNumber      int64
	Timestamp        uint64
	GasPrice         Felt
	SequencerAddress Address
}

// EmptyBlockInfo returns the block information before the first block.
func EmptyBlockInfo(gasPrice Felt, sequencer Address) BlockInfo {
	return BlockInfo{
		BlockNumber:      -1,
		GasPrice:         gasPrice,
		SequencerAddress: sequencer,
	}
}

// ValidateLegalProgress checks that next may follow b: the block number
// increases by exactly one and time does not go backwards.
func (b BlockInfo) ValidateLegalProgress(next BlockInfo) error {
	if want, got := b.BlockNumber+1, next.BlockNumber; want != got {
		return fmt.Errorf("%w: illegal block number, want %d, got %d", ErrValidation, want, got)
	}
	if next.Timestamp < b.Timestamp {
		return fmt.Errorf("%w: block timestamp %d precedes %d", ErrValidation, next.Timestamp, b.Timestamp)
	}
	return nil
}

// GeneralConfig holds the parameters of the rollup that are fixed for the
// lifetime of a sandbox.
type GeneralConfig struct {
	ChainID          Felt       `toml:"chain_id"`
	FeeTokenAddress  Address    `toml:"fee_token_address"`
	SequencerAddress Address    `toml:"sequencer_address"`
	FeeWeights       FeeWeights `toml:"fee_weights"`
	// InvokeTxMaxSteps bounds the VM steps of a single transaction.
	InvokeTxMaxSteps uint64 `toml:"invoke_tx_max_n_steps"`
	// Every L2-to-L1 message occupies MessageHeaderWords plus its payload
	// length in words on the parent chain, each costing L1GasPerMessageWord.
	MessageHeaderWords  uint64 `toml:"message_header_words"`
	L1GasPerMessageWord uint64 `toml:"l1_gas_per_message_word"`
	// GasPrice is the L1 gas price of the initial block.
	GasPrice Felt `toml:"gas_price"`
}

var (
	DefaultChainID          = ShortString("SN_GOERLI")
	DefaultFeeTokenAddress  = Address(FeltFromUint256(mustParseHex("0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7")))
	DefaultSequencerAddress = Address(FeltFromUint256(mustParseHex("0x37b2cd6baaa515f520383bee7b7094f892f4c770695fc329a8973e841a971ae")))
	DefaultGasPrice         = NewFelt(100_000_000_000)
)

const (
	DefaultInvokeTxMaxSteps    = 1_000_000
	DefaultMessageHeaderWords  = 3
	DefaultL1GasPerMessageWord = 512
)

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *GeneralConfig {
	return &GeneralConfig{
		ChainID:             DefaultChainID,
		FeeTokenAddress:     DefaultFeeTokenAddress,
		SequencerAddress:    DefaultSequencerAddress,
		FeeWeights:          DefaultFeeWeights(),
		InvokeTxMaxSteps:    DefaultInvokeTxMaxSteps,
		MessageHeaderWords:  DefaultMessageHeaderWords,
		L1GasPerMessageWord: DefaultL1GasPerMessageWord,
		GasPrice:            DefaultGasPrice,
	}
}

// ShortString encodes an ASCII string of at most 31 characters as a field
// element.
func ShortString(s string) Felt {
	if len(s) > 31 {
		panic(fmt.Sprintf("short string too long: %q", s))
	}
	var res Felt
	copy(res[32-len(s):], s)
	return res
}

func (c *GeneralConfig) Clone() *GeneralConfig {
	res := *c
	res.FeeWeights = c.FeeWeights.Clone()
	return &res
}

// Validate checks the consistency of the configuration.
func (c *GeneralConfig) Validate() error {
	var errs []error
	if c.FeeTokenAddress.IsZero() {
		errs = append(errs, fmt.Errorf("fee token address is not set"))
	}
	if c.SequencerAddress.IsZero() {
		errs = append(errs, fmt.Errorf("sequencer address is not set"))
	}
	if !c.FeeTokenAddress.ToUint256().Lt(AddressBound) || !c.SequencerAddress.ToUint256().Lt(AddressBound) {
		errs = append(errs, fmt.Errorf("address out of range"))
	}
	if len(c.FeeWeights) == 0 {
		errs = append(errs, fmt.Errorf("no fee weights defined"))
	}
	if _, found := c.FeeWeights[StepsResource]; !found {
		errs = append(errs, fmt.Errorf("missing fee weight for %s", StepsResource))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

// tomlSettings matches keys to the toml tags of GeneralConfig and reports
// unknown keys by name.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// LoadConfig reads a TOML configuration file. Values not set in the file
// keep their defaults. The result is validated.
func LoadConfig(path string) (*GeneralConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	// Weights given in the file replace the defaults as a whole.
	config.FeeWeights = nil
	if err := tomlSettings.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrConfiguration, path, err)
	}
	if config.FeeWeights == nil {
		config.FeeWeights = DefaultFeeWeights()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
