package provider

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/discovery"
	"github.com/peteruche21/tailwind-packages/utils"
)

// DefaultDialTimeout bounds the connection Attach makes on the readiness signal.
const DefaultDialTimeout = 10 * time.Second

// Attach makes the provider at url the collaborator of ch: on the readiness
// signal it dials, waits for the provider's own readiness event and registers
// the client as the channel's wallet.
func Attach(ch *discovery.Channel, url, origin string) (unsubscribe func()) {
	return ch.Subscribe(func(discovery.Event) {
		go func() {
			if err := connect(ch, url, origin); err != nil {
				utils.ErrorLog(errors.Wrap(err, "couldn't attach provider"))
			}
		}()
	})
}

func connect(ch *discovery.Channel, url, origin string) error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultDialTimeout)
	defer cancel()

	client, err := Dial(ctx, url, origin)
	if err != nil {
		return err
	}
	select {
	case <-client.Ready():
	case <-client.Done():
		return ErrClosed
	case <-ctx.Done():
		_ = client.Close()
		return ctx.Err()
	}
	if err = ch.Register(client); err != nil {
		_ = client.Close()
		return err
	}
	utils.Logf("provider %s attached for %s", url, origin)
	return nil
}
