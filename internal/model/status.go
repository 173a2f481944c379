package model

// Phase is the state of the status reporter
type Phase string

const (
	// PhaseIdle means no task owns the status
	PhaseIdle Phase = "Idle"

	// PhaseBusy means a background task is running and owns the status
	PhaseBusy Phase = "Busy"

	// PhaseResult means a task finished and its terminal text is on display
	PhaseResult Phase = "Result"
)

// Status texts shown to the user
const (
	StatusIdle            = "Idle."
	StatusReady           = "Ready."
	StatusLoading         = "Loading information..."
	StatusDone            = "Done."
	StatusUnavailable     = "This video is unavailable!"
	StatusInvalidLink     = "Invalid link."
	StatusFetchError      = "An error occurred. Check the log for more information."
	StatusStarting        = "Starting download..."
	StatusFetchingVideo   = "Fetching video stream..."
	StatusFetchingAudio   = "Fetching audio stream..."
	StatusDownloading     = "Downloading..."
	StatusConverting      = "Converting audio..."
	StatusDownloadDone    = "Download complete."
	StatusNoStream        = "Unable to get stream."
	StatusDownloadFailed  = "Download failed. Check the log for more info."
	StatusDownloadAborted = "An exception has occurred! Check the log for more info."
)

// Status formats used while a collection is processed; arguments are item index and count
const (
	StatusResolvingVideoItem = "Getting video stream (%d/%d)"
	StatusResolvingAudioItem = "Getting audio stream (%d/%d)"
	StatusDownloadingItem    = "Downloading... (%d/%d)"
)

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// IsActive returns true while a task owns the status
func (p Phase) IsActive() bool {
	return p == PhaseBusy
}

// IsFinished returns true when a terminal text is being displayed
func (p Phase) IsFinished() bool {
	return p == PhaseResult
}

// StatusReport is the shared status polled by the presentation layer
type StatusReport struct {
	Phase      Phase
	Text       string
	InProgress bool
	Progress   float64 // 0.0 to 1.0
	ErrKind    ErrorKind
	Owner      string // id of the task holding the status, empty when idle
}

// IdleReport returns the report shown at startup
func IdleReport() StatusReport {
	return StatusReport{Phase: PhaseIdle, Text: StatusIdle}
}

// Percent returns progress as an integer percentage
func (r StatusReport) Percent() int {
	return int(r.Progress * 100)
}
