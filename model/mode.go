package model

// Mode is the active interaction mode. Exactly one is active at a time.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeConfirmDelete
	ModeInstallSelectModel
	ModeInstallSelectModelFilter
	ModeInstallSelectTag
	ModeInstallConfirm
	ModeInstalling
	ModeRunningOllama
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeFilter:
		return "Filter"
	case ModeConfirmDelete:
		return "ConfirmDelete"
	case ModeInstallSelectModel:
		return "InstallSelectModel"
	case ModeInstallSelectModelFilter:
		return "InstallSelectModelFilter"
	case ModeInstallSelectTag:
		return "InstallSelectTag"
	case ModeInstallConfirm:
		return "InstallConfirm"
	case ModeInstalling:
		return "Installing"
	case ModeRunningOllama:
		return "RunningOllama"
	case ModeHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// AllModes lists every mode in declaration order.
func AllModes() []Mode {
	return []Mode{
		ModeNormal,
		ModeFilter,
		ModeConfirmDelete,
		ModeInstallSelectModel,
		ModeInstallSelectModelFilter,
		ModeInstallSelectTag,
		ModeInstallConfirm,
		ModeInstalling,
		ModeRunningOllama,
		ModeHelp,
	}
}

// acceptsHelp reports whether the global help shortcut applies. Modes that
// consume character input themselves, or accept no input at all, opt out.
func (m Mode) acceptsHelp() bool {
	switch m {
	case ModeRunningOllama, ModeHelp, ModeFilter, ModeInstallSelectModelFilter, ModeInstalling:
		return false
	}
	return true
}

// InInstallFlow reports whether m belongs to the registry install picker.
func (m Mode) InInstallFlow() bool {
	switch m {
	case ModeInstallSelectModel, ModeInstallSelectModelFilter, ModeInstallSelectTag, ModeInstallConfirm:
		return true
	}
	return false
}
