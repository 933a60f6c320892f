package models

// AlertService delivers operational alerts to the operator
// (pause lifecycle, failed sweeps, reclaims). Best-effort only.
type AlertService interface {
	Alert(message string)
}
