// Where: internal/app/notify.go
// What: `amis notify attach|detach` commands.
// Why: Wire a bucket to the put function outside CloudFormation.
package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/poruru/ami-catalog/internal/notification"
)

// NotifyCmd groups notification subcommands.
type NotifyCmd struct {
	Attach NotifyAttachCmd `cmd:"" help:"Invoke a function for objects put into a bucket"`
	Detach NotifyDetachCmd `cmd:"" help:"Remove a notification by its id"`
}

type NotifyAttachCmd struct {
	Bucket   string `required:"" help:"Bucket name"`
	Function string `required:"" help:"Function name or ARN"`
	Prefix   string `help:"Object key prefix filter"`
	Suffix   string `help:"Object key suffix filter"`
	Account  string `help:"Account that owns the bucket"`
}

type NotifyDetachCmd struct {
	ID string `name:"id" required:"" help:"Notification id (<bucket>___<function>)"`
}

var errNotificationsNil = errors.New("notification manager is not configured")

func runNotifyAttach(cli CLI, deps Dependencies, out io.Writer) int {
	cmd := cli.Notify.Attach
	manager, err := notificationManager(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	if cmd.Account != "" {
		manager.AccountID = cmd.Account
	}
	id, err := manager.Attach(deps.Context, notification.Spec{
		Bucket:   cmd.Bucket,
		Function: cmd.Function,
		Prefix:   cmd.Prefix,
		Suffix:   cmd.Suffix,
	})
	if err != nil {
		return exitWithError(out, err)
	}
	fmt.Fprintf(out, "✅ Attached notification: %s\n", id)
	return 0
}

func runNotifyDetach(cli CLI, deps Dependencies, out io.Writer) int {
	manager, err := notificationManager(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := manager.Detach(deps.Context, cli.Notify.Detach.ID); err != nil {
		return exitWithError(out, err)
	}
	fmt.Fprintf(out, "✅ Detached notification: %s\n", cli.Notify.Detach.ID)
	return 0
}

func notificationManager(cli CLI, deps Dependencies) (*notification.Manager, error) {
	settings, err := prepare(cli, deps)
	if err != nil {
		return nil, err
	}
	svc, err := deps.services(settings)
	if err != nil {
		return nil, err
	}
	if svc.Notifications == nil {
		return nil, errNotificationsNil
	}
	return svc.Notifications, nil
}
