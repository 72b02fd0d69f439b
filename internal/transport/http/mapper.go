package http

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/focusroom/focusroom/internal/core"
	"github.com/focusroom/focusroom/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeHost:
		var host proto.HostData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &host); err != nil {
				return nil, nil, err
			}
		}
		return &core.Command{
			Kind: core.CommandHost,
			User: host.ID,
		}, nil, nil
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		if join.ID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "ID is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandJoin,
			Room: join.Room,
			User: join.ID,
		}, nil, nil
	case proto.InboundTypeLeave:
		return &core.Command{Kind: core.CommandLeave}, nil, nil
	case proto.InboundTypeStartInterval:
		var interval proto.IntervalData
		if err := json.Unmarshal(inbound.Data, &interval); err != nil {
			return nil, nil, err
		}
		if interval.Name == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "name is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandStartInterval,
			Name:      interval.Name,
			ProjectID: interval.ProjectID,
		}, nil, nil
	case proto.InboundTypeStopInterval:
		return &core.Command{Kind: core.CommandStopInterval}, nil, nil
	case proto.InboundTypeEditInterval:
		var interval proto.IntervalData
		if err := json.Unmarshal(inbound.Data, &interval); err != nil {
			return nil, nil, err
		}
		if interval.Name == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "name is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandEditInterval,
			Name:      interval.Name,
			ProjectID: interval.ProjectID,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventHosted:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "host",
			Data:  proto.EventHosted{RoomID: event.Room},
		}
	case core.EventMemberJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "join",
			Data:  proto.EventJoined{UserID: event.User},
		}
	case core.EventMemberLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "leave",
			Data:  proto.EventLeft{UserID: event.User},
		}
	case core.EventIntervalStarted:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "start",
			Data: proto.EventIntervalStarted{
				UserID:     event.User,
				IntervalID: formatIntervalID(event.Interval.ID),
				Name:       event.Interval.Name,
				ProjectID:  event.Interval.ProjectID,
				StartTime:  event.Interval.StartTime.Format(time.RFC3339),
			},
		}
	case core.EventIntervalStopped:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "stop",
			Data: proto.EventIntervalStopped{
				UserID:     event.User,
				IntervalID: formatIntervalID(event.Interval.ID),
				Name:       event.Interval.Name,
				ProjectID:  event.Interval.ProjectID,
				StartTime:  event.Interval.StartTime.Format(time.RFC3339),
				EndTime:    event.Interval.EndTime.Format(time.RFC3339),
			},
		}
	case core.EventIntervalEdited:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: "edit",
			Data: proto.EventIntervalEdited{
				UserID:       event.User,
				IntervalID:   formatIntervalID(event.Interval.ID),
				IntervalName: event.Interval.Name,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

// Interval ids travel as strings on the wire; clients treat them as opaque.
func formatIntervalID(id int64) string {
	return strconv.FormatInt(id, 10)
}
