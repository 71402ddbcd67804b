package shell

// Markers written alongside the PATH line
const (
	// PathMarker is the comment line written above the PATH line
	PathMarker = "# Added by openfang-install"

	// BackupSuffix is appended to the rc file name for backups
	BackupSuffix = ".openfang-backup"
)
