package chain

import (
	"fmt"

	"github.com/wippyai/scale-codec/errors"
)

// Header is the TXOutputHeader bit field of an output. The low three bits
// select the signature method and the next six the token type.
type Header uint16

// SignatureMethod identifies how an output is unlocked.
type SignatureMethod uint16

const (
	SignatureBLS     SignatureMethod = 0
	SignatureSchnorr SignatureMethod = 1
	SignatureZkSnark SignatureMethod = 2
)

// TokenType identifies the asset an output carries.
type TokenType uint16

const (
	TokenMLT TokenType = 0
	TokenETH TokenType = 8
	TokenBTC TokenType = 16
)

const (
	signatureMask Header = 0b111
	tokenMask     Header = 0b111111_000
)

func (s SignatureMethod) String() string {
	switch s {
	case SignatureBLS:
		return "BLS"
	case SignatureSchnorr:
		return "Schnorr"
	case SignatureZkSnark:
		return "ZkSnark"
	}
	return fmt.Sprintf("SignatureMethod(%d)", uint16(s))
}

func (t TokenType) String() string {
	switch t {
	case TokenMLT:
		return "MLT"
	case TokenETH:
		return "ETH"
	case TokenBTC:
		return "BTC"
	}
	return fmt.Sprintf("TokenType(%d)", uint16(t))
}

// SignatureMethod extracts the signature method.
func (h Header) SignatureMethod() (SignatureMethod, error) {
	s := SignatureMethod(h & signatureMask)
	switch s {
	case SignatureBLS, SignatureSchnorr, SignatureZkSnark:
		return s, nil
	}
	return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Value(uint16(h)).
		Detail("unsupported signature method %d", uint16(s)).
		Build()
}

// TokenType extracts the token type.
func (h Header) TokenType() (TokenType, error) {
	t := TokenType(h & tokenMask)
	switch t {
	case TokenMLT, TokenETH, TokenBTC:
		return t, nil
	}
	return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Value(uint16(h)).
		Detail("unsupported token type %d", uint16(t)).
		Build()
}

// WithSignatureMethod returns h with its signature bits replaced.
func (h Header) WithSignatureMethod(s SignatureMethod) Header {
	return h&^signatureMask | Header(s)&signatureMask
}

// WithTokenType returns h with its token type bits replaced.
func (h Header) WithTokenType(t TokenType) Header {
	return h&^tokenMask | Header(t)&tokenMask
}

// Validate checks that both fields hold supported values.
func (h Header) Validate() error {
	if _, err := h.SignatureMethod(); err != nil {
		return err
	}
	_, err := h.TokenType()
	return err
}
