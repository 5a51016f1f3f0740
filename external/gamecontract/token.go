package gamecontract

import (
	"bytes"
	"strconv"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// TokenID is an NFT token identifier. The contract emits token ids either as
// JSON strings or as bare integers; both decode to the same canonical text.
type TokenID string

func (t *TokenID) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return crerr.New("empty token id")
	}

	switch raw[0] {
	case '"':
		var s string
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return crerr.Wrap(err, "decode token id string")
		}
		if s == "" {
			return crerr.New("token id is empty")
		}
		*t = TokenID(s)
		return nil
	case 'n':
		return crerr.New("token id is null")
	}

	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		u, uerr := strconv.ParseUint(string(raw), 10, 64)
		if uerr != nil {
			return crerr.Wrapf(err, "token id %s is neither a string nor an integer", raw)
		}
		*t = TokenID(strconv.FormatUint(u, 10))
		return nil
	}
	*t = TokenID(strconv.FormatInt(n, 10))
	return nil
}

func (t TokenID) String() string {
	return string(t)
}

func tokenStrings(in []TokenID) []string {
	out := make([]string, 0, len(in))
	for _, token := range in {
		out = append(out, string(token))
	}
	return out
}
