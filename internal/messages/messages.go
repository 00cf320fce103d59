// Package messages holds user-facing format strings shared by validators, the engine and the CLI.
package messages

// Validation.
const (
	ValidateUnsupportedExtensionFmt = "unsupported file extension %q: expected json, yaml, yml or xml"
	ValidateReadFmt                 = "failed to read %s"
	ValidateParseFmt                = "failed to parse %s as %s"
	ValidateSchemaFmt               = "%s: schema: %s"
	ValidateSemanticFmt             = "%s: %s"
	ValidatePassedFmt               = "%s is valid"
	ValidateFailedFmt               = "%s has %d problem(s)"

	MethodNeedsStepsOrManagerFmt = "App[%d] Version[%d] Method[%d]: must define at least one installation method, either 'steps' or 'package_manager'"
	MethodNeedsPackageNameFmt    = "App[%d] Version[%d] Method[%d]: 'package_name' is required when 'package_manager' is set and steps do not cover both install and uninstall"

	SettingsFieldMissingFmt      = "field '%s' is missing"
	SettingsFieldNotStringFmt    = "field '%s' must be a string"
	SettingsFieldEmptyFmt        = "field '%s' must not be empty"
	SettingsFieldNotAbsoluteFmt  = "field '%s' must be an absolute path. Found: %s"
	SettingsFieldBadExtensionFmt = "field '%s' must have a supported file extension (json, yaml, yml, xml). Found: .%s"

	VPSMissingNameFmt   = "VPS[%d]: missing VPS name"
	VPSMissingHostFmt   = "VPS[%d]: VPS `%s` has no host specified"
	VPSPortNotNumberFmt = "VPS[%d]: port %q is not a number"
	VPSPortRangeFmt     = "VPS[%d]: port %d is out of range (1-65535)"
)

// Resolution and execution.
const (
	NoInstallMethodFmt     = "No valid install method found for %s"
	MethodNotExecutableFmt = "install method for %s defines neither steps nor a package manager with a package name"
	AlreadyInstalledFmt    = "%s is already installed"
	SkippedByUserFmt       = "Skipped %s"
	ConfirmInstallFmt      = "Do you want to install: %s?"
	ConfirmUninstallFmt    = "Are you sure you want to uninstall: %s?"
	StepFailedFmt          = "step %q failed for %s: %v"
)

// Package managers.
const (
	ManagerNotInstalledFmt   = "Package manager '%s' is not installed. Please install it manually."
	ManagerOfferBootstrapFmt = "Package manager '%s' is not installed. Install it now?"
	ManagerUnusableFmt       = "Skipping %s: package manager '%s' is not available"
	NixInstallGuidanceFmt    = "It's recommended to install '%s' using Nix directly:\n    nix-env -iA nixpkgs.%s\n"
	NixUninstallGuidanceFmt  = "To uninstall Nix packages, run:\n    nix-env -e %s\n"
	NixUpdateGuidance        = "To update Nix packages, run:\n    nix-channel --update && nix-env -u\n"
)

// VPS bookkeeping.
const (
	VPSNotFoundFmt      = "no VPS entry with id %q"
	VPSDuplicateIDFmt   = "a VPS entry with id %q already exists"
	VPSSavedFmt         = "Saved VPS %s to %s"
	VPSDeletedFmt       = "Deleted VPS %s"
	VPSNoScriptFmt      = "VPS %s has no post_connect_script and no script was given"
	VPSFixedDuplicateID = "Renamed duplicate VPS id %q to %q"
)
