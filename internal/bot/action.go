package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback action names. Names that take an id or an argument are
// encoded as {name}_{id}, {name}_{arg} or {name}_{id}_{arg}.
const (
	ActAddSubscription          = "add_subscription"
	ActListSubscriptions        = "list_subscriptions"
	ActInactiveSubscriptions    = "inactive_subscriptions"
	ActAnalytics                = "analytics"
	ActExportExcel              = "export_excel"
	ActSettings                 = "settings"
	ActSettingsNotifications    = "settings_notifications"
	ActSettingsNotificationTime = "settings_notification_time"
	ActBackToMain               = "back_to_main"
	ActCancelAdd                = "cancel_add"

	ActChangeNotificationTime = "change_notification_time"
	ActEdit                   = "edit"
	ActDelete                 = "delete"
	ActToggleNotifications    = "toggle_notifications"
	ActChangeStatus           = "change_status"

	ActSetNotificationTime = "set_notification_time"
	ActEditField           = "edit_field"
	ActSetStatusInactive   = "set_status_inactive"

	ActPeriod    = "period"
	ActSetPeriod = "set_period"
	ActSetStatus = "set_status"
)

type argKind int

const (
	argNone argKind = iota
	argID
	argIDAndValue
	argValue
)

// Longer names come first so that prefixes such as edit_ never shadow edit_field_.
var actionShapes = []struct {
	name string
	kind argKind
}{
	{ActSettingsNotificationTime, argNone},
	{ActSettingsNotifications, argNone},
	{ActInactiveSubscriptions, argNone},
	{ActListSubscriptions, argNone},
	{ActAddSubscription, argNone},
	{ActExportExcel, argNone},
	{ActBackToMain, argNone},
	{ActCancelAdd, argNone},
	{ActAnalytics, argNone},
	{ActSettings, argNone},

	{ActChangeNotificationTime, argID},
	{ActSetNotificationTime, argIDAndValue},
	{ActToggleNotifications, argID},
	{ActSetStatusInactive, argIDAndValue},
	{ActChangeStatus, argID},
	{ActEditField, argIDAndValue},
	{ActSetPeriod, argValue},
	{ActSetStatus, argValue},
	{ActDelete, argID},
	{ActPeriod, argValue},
	{ActEdit, argID},
}

// Action is a parsed callback payload.
type Action struct {
	Name string
	ID   int64
	Arg  string
}

func ParseAction(data string) (Action, error) {
	for _, shape := range actionShapes {
		if shape.kind == argNone {
			if data == shape.name {
				return Action{Name: shape.name}, nil
			}
			continue
		}

		rest, ok := strings.CutPrefix(data, shape.name+"_")
		if !ok || rest == "" {
			continue
		}

		switch shape.kind {
		case argValue:
			return Action{Name: shape.name, Arg: rest}, nil
		case argID:
			id, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				continue
			}
			return Action{Name: shape.name, ID: id}, nil
		case argIDAndValue:
			idPart, arg, found := strings.Cut(rest, "_")
			if !found || arg == "" {
				continue
			}
			id, err := strconv.ParseInt(idPart, 10, 64)
			if err != nil {
				continue
			}
			return Action{Name: shape.name, ID: id, Arg: arg}, nil
		}
	}
	return Action{}, fmt.Errorf("bot: unknown callback %q", data)
}

// Data encodes the action as callback payload.
func (a Action) Data() string {
	var b strings.Builder
	b.WriteString(a.Name)
	if a.ID != 0 {
		b.WriteString("_")
		b.WriteString(strconv.FormatInt(a.ID, 10))
	}
	if a.Arg != "" {
		b.WriteString("_")
		b.WriteString(a.Arg)
	}
	return b.String()
}
