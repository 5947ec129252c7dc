package tx

import (
	"strconv"

	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"

	"github.com/peteruche21/tailwind-packages/types"
)

// RaiseGasLimit decodes AuthInfo, raises Fee.GasLimit to gas when lower and re-encodes it.
// The input is returned untouched, with changed=false, when no change is needed.
func RaiseGasLimit(authInfoBytes []byte, gas uint64) (out []byte, changed bool, err error) {
	authInfo := &txv1beta1.AuthInfo{}
	if err = proto.Unmarshal(authInfoBytes, authInfo); err != nil {
		return nil, false, errors.Wrap(types.ErrInvalidSignDoc, "decode auth info: "+err.Error())
	}
	if authInfo.Fee == nil {
		authInfo.Fee = &txv1beta1.Fee{}
	}
	if authInfo.Fee.GasLimit >= gas {
		return authInfoBytes, false, nil
	}
	authInfo.Fee.GasLimit = gas

	out, err = proto.MarshalOptions{Deterministic: true}.Marshal(authInfo)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// GasLimit reads Fee.GasLimit from encoded AuthInfo.
func GasLimit(authInfoBytes []byte) (uint64, error) {
	authInfo := &txv1beta1.AuthInfo{}
	if err := proto.Unmarshal(authInfoBytes, authInfo); err != nil {
		return 0, errors.Wrap(types.ErrInvalidSignDoc, "decode auth info: "+err.Error())
	}
	return authInfo.GetFee().GetGasLimit(), nil
}

// RaiseFeeGas is the amino counterpart of RaiseGasLimit. It works on a copy of doc.
func RaiseFeeGas(doc types.StdSignDoc, gas uint64) (types.StdSignDoc, bool, error) {
	current, err := doc.Fee.GasLimit()
	if err != nil {
		return doc, false, errors.Wrap(types.ErrInvalidSignDoc, err.Error())
	}
	if current >= gas {
		return doc, false, nil
	}
	out := doc.Clone()
	out.Fee.Gas = strconv.FormatUint(gas, 10)
	return out, true, nil
}
