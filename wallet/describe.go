package wallet

import (
	"fmt"
	"strings"

	txv1beta1 "cosmossdk.io/api/cosmos/tx/v1beta1"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"

	"github.com/peteruche21/tailwind-packages/tx"
	"github.com/peteruche21/tailwind-packages/types"
)

// DescribeDoc lists the messages of doc in a human readable form. Payloads of
// unregistered amino types are shown by type only.
func DescribeDoc(doc types.Doc) []string {
	switch d := doc.(type) {
	case types.StdSignDoc:
		return describeAmino(d)
	case types.SignDoc:
		return describeDirect(d)
	}
	return nil
}

func describeAmino(doc types.StdSignDoc) []string {
	var out []string
	for _, msg := range doc.Msgs {
		v, err := types.DefaultAminoRegistry.Decode(msg)
		switch {
		case errors.Is(err, types.ErrUnknownMsgType):
			out = append(out, msg.Type)
		case err != nil:
			out = append(out, fmt.Sprintf("%s (undecodable: %v)", msg.Type, err))
		default:
			out = append(out, describeMsg(msg.Type, v))
		}
	}
	if gas, err := doc.Fee.GasLimit(); err == nil {
		out = append(out, fmt.Sprintf("fee %s gas %d", coinsString(doc.Fee.Amount), gas))
	}
	if doc.Memo != "" {
		out = append(out, "memo "+doc.Memo)
	}
	return out
}

func describeDirect(doc types.SignDoc) []string {
	var out []string
	body := &txv1beta1.TxBody{}
	if err := proto.Unmarshal(doc.BodyBytes, body); err != nil {
		return []string{fmt.Sprintf("undecodable body: %v", err)}
	}
	for _, msg := range body.GetMessages() {
		out = append(out, msg.GetTypeUrl())
	}
	if gas, err := tx.GasLimit(doc.AuthInfoBytes); err == nil {
		out = append(out, fmt.Sprintf("gas %d", gas))
	}
	if body.GetMemo() != "" {
		out = append(out, "memo "+body.GetMemo())
	}
	return out
}

func describeMsg(msgType string, v interface{}) string {
	switch m := v.(type) {
	case *types.MsgSend:
		return fmt.Sprintf("%s %s -> %s: %s", msgType, m.FromAddress, m.ToAddress, coinsString(m.Amount))
	}
	return msgType
}

func coinsString(coins []types.Coin) string {
	parts := make([]string, 0, len(coins))
	for _, c := range coins {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}
