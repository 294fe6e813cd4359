package cli

import "github.com/jedib0t/go-pretty/v6/text"

// Status codes share a layout: the leading digit is the phase (2 in progress,
// 3 done, 4 failed) and the rest names the operation.

// ServiceStatusLabel returns the display label of a service or environment status.
func ServiceStatusLabel(status int32) string {
	switch status {
	case 3001:
		return "Ready"
	case 2011:
		return "Syncing Network"
	case 4011:
		return "Failed To Sync Network"
	case 2021:
		return "Deleting"
	case 4021:
		return "Failed To Delete"
	default:
		return "Unknown"
	}
}

// ServiceStatusColor returns the colour used for a service status label.
func ServiceStatusColor(status int32) text.Color {
	switch status {
	case 3001:
		return text.FgGreen
	case 4011, 4021:
		return text.FgRed
	default:
		return text.FgYellow
	}
}

// DeploymentStatusLabel returns the display label of a deployment status.
func DeploymentStatusLabel(status int32) string {
	switch status {
	case 2001:
		return "Pending"
	case 4001:
		return "Failed"

	case 2011:
		return "Building"
	case 3011:
		return "Build Succeeded"
	case 4011:
		return "Build Failed"

	case 2021:
		return "Deploying"
	case 3021:
		return "Deployed"
	case 4021:
		return "Failed To Deploy"

	case 2031:
		return "Pausing"
	case 3031:
		return "Paused"
	case 4031:
		return "Failed To Pause"

	case 2041:
		return "Stopping"
	case 3041:
		return "Stopped"
	case 4041:
		return "Failed To Stop"

	case 2051:
		return "Canceling"
	case 3051:
		return "Canceled"
	case 4051:
		return "Failed To Cancel"

	default:
		return "Unknown"
	}
}

// DeploymentStatusColor returns the colour used for a deployment status label.
func DeploymentStatusColor(status int32) text.Color {
	switch status {
	case 2011, 2021:
		return text.FgBlue
	case 3011, 3021:
		return text.FgGreen
	case 3041, 3051:
		return text.FgHiBlack
	case 4001, 4011, 4021, 4031, 4041, 4051:
		return text.FgRed
	default:
		return text.FgYellow
	}
}
