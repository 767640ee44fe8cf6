package commands

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/chyk-ink/gestures-helper/desktop"
)

// ServiceName is the bus name owned by a running helper
const ServiceName = "ink.chyk.GesturesHelper"

type DoctorInfo struct {
	Version          string `json:"version"`
	OS               string `json:"os"`
	SessionType      string `json:"session_type,omitempty"`
	Desktop          string `json:"desktop,omitempty"`
	SessionBus       string `json:"session_bus"`
	ServiceRunning   bool   `json:"service_running"`
	KWin             bool   `json:"kwin"`
	KGlobalAccel     bool   `json:"kglobalaccel"`
	DolphinInstances int    `json:"dolphin_instances"`
	YdotoolPath      string `json:"ydotool_path"`
	YdotoolSocket    string `json:"ydotool_socket,omitempty"`
}

// DoctorRequest holds what the diagnostics probe. Bus is nil when the
// session bus could not be reached, BusError then says why.
type DoctorRequest struct {
	Version  string
	Bus      desktop.Bus
	BusError error
	Ydotool  *desktop.Ydotool
}

func getYdotoolSocket() string {
	socket := os.Getenv("YDOTOOL_SOCKET")
	if socket == "" {
		socket = "/tmp/.ydotool_socket"
	}
	if _, err := os.Stat(socket); err != nil {
		return ""
	}
	return socket
}

// DoctorCommand reports whether the session has what the helper needs
func DoctorCommand(ctx context.Context, req DoctorRequest) *CommandResponse {
	info := DoctorInfo{
		Version:     req.Version,
		OS:          runtime.GOOS,
		SessionType: os.Getenv("XDG_SESSION_TYPE"),
		Desktop:     os.Getenv("XDG_CURRENT_DESKTOP"),
	}

	if req.Ydotool != nil {
		if path, err := req.Ydotool.Available(); err == nil {
			info.YdotoolPath = path
		}
	}
	info.YdotoolSocket = getYdotoolSocket()

	switch {
	case req.BusError != nil:
		info.SessionBus = req.BusError.Error()
	case req.Bus == nil:
		info.SessionBus = "not connected"
	default:
		names, err := req.Bus.ListNames(ctx)
		if err != nil {
			info.SessionBus = err.Error()
			break
		}

		info.SessionBus = "ok"
		for _, name := range names {
			switch {
			case name == ServiceName:
				info.ServiceRunning = true
			case name == desktop.KWinService:
				info.KWin = true
			case name == desktop.KGlobalAccelService:
				info.KGlobalAccel = true
			case strings.HasPrefix(name, desktop.DolphinServicePrefix):
				info.DolphinInstances++
			}
		}
	}

	return NewSuccessResponse(info)
}
