package sdk

// Asset names the fungible token contract a DAO is bound to.
type Asset string

// String returns the raw token id for logging or host calls.
// Example payload: sdk.Asset("fdai.testnet").String()
func (a Asset) String() string {
	return string(a)
}

// Matches compares against an incoming token id without allocating an Asset.
func (a Asset) Matches(token string) bool {
	return string(a) == token
}
