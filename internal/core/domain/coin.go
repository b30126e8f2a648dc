package domain

// CoinFamily selects the transfer mechanics for a coin.
type CoinFamily string

const (
	// FamilyUTXO spends discrete unspent outputs (BTC, LTC).
	FamilyUTXO CoinFamily = "UTXO"
	// FamilyAccount moves balances between accounts (ETH).
	FamilyAccount CoinFamily = "ACCOUNT"
	// FamilyToken rides on a parent account chain's contract calls (USDT).
	FamilyToken CoinFamily = "TOKEN"
)

// CoinSpec describes one supported coin. Token specs point at a parent
// chain and share its keypair and address.
type CoinSpec struct {
	Symbol         string
	Name           string
	Family         CoinFamily
	Parent         string // parent chain symbol, tokens only
	Decimals       int32
	Contract       string // token contract address, tokens only
	DerivationPath string
	Bech32HRP      string // UTXO chains only
	Network        string
	GasLimit       uint64 // account chains: gas units per plain transfer
}

// IsToken reports whether the coin settles through a parent chain's
// contract.
func (s CoinSpec) IsToken() bool {
	return s.Family == FamilyToken
}

// GasSymbol returns the symbol whose balance pays this coin's network
// fees: the parent chain for tokens, the coin itself otherwise.
func (s CoinSpec) GasSymbol() string {
	if s.IsToken() {
		return s.Parent
	}
	return s.Symbol
}

var coins = map[string]CoinSpec{
	"BTC": {
		Symbol:         "BTC",
		Name:           "Bitcoin",
		Family:         FamilyUTXO,
		Decimals:       8,
		DerivationPath: "m/84'/0'/0'/0/0",
		Bech32HRP:      "bc",
		Network:        "bitcoin",
	},
	"LTC": {
		Symbol:         "LTC",
		Name:           "Litecoin",
		Family:         FamilyUTXO,
		Decimals:       8,
		DerivationPath: "m/84'/2'/0'/0/0",
		Bech32HRP:      "ltc",
		Network:        "litecoin",
	},
	"ETH": {
		Symbol:         "ETH",
		Name:           "Ethereum",
		Family:         FamilyAccount,
		Decimals:       18,
		DerivationPath: "m/44'/60'/0'/0/0",
		Network:        "ethereum",
		GasLimit:       21000,
	},
	"USDT": {
		Symbol:         "USDT",
		Name:           "Tether USD",
		Family:         FamilyToken,
		Parent:         "ETH",
		Decimals:       6,
		Contract:       "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		DerivationPath: "m/44'/60'/0'/0/0",
		Network:        "ethereum",
	},
}

// defaultCoins are provisioned on every new wallet, in creation order.
var defaultCoins = []string{"BTC", "LTC", "ETH", "USDT"}

// Coin looks up a supported coin by symbol.
func Coin(symbol string) (CoinSpec, bool) {
	spec, ok := coins[symbol]
	return spec, ok
}

// DefaultCoins returns the symbols provisioned on wallet creation.
func DefaultCoins() []string {
	out := make([]string, len(defaultCoins))
	copy(out, defaultCoins)
	return out
}

// SupportedSymbols returns every supported symbol.
func SupportedSymbols() []string {
	out := make([]string, 0, len(coins))
	for symbol := range coins {
		out = append(out, symbol)
	}
	return out
}
