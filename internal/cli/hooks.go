package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/config"
)

// Agent hook events and the drb subcommand each one runs.
var agentHooks = []struct {
	Event      string
	Subcommand string
}{
	{Event: "UserPromptSubmit", Subcommand: "show"},
	{Event: "Stop", Subcommand: "agent-stop"},
}

// drbBinaryName is the executable a drb hook command runs.
const drbBinaryName = "drb"

// hookSubcommands are the subcommands drb hooks run, including "hide" from
// older installs.
var hookSubcommands = map[string]bool{"show": true, "agent-stop": true, "hide": true}

var (
	flagHooksSettings string
	flagHooksBinary   string
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the coding agent hooks that drive the practice window",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register drb show / drb agent-stop hooks",
	Args:  cobra.NoArgs,
	RunE:  runHooksInstall,
}

var hooksUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove drb hooks",
	Args:  cobra.NoArgs,
	RunE:  runHooksUninstall,
}

func init() {
	hooksCmd.PersistentFlags().StringVar(&flagHooksSettings, "settings", "", "Agent settings file (default ~/.claude/settings.json)")
	hooksInstallCmd.Flags().StringVar(&flagHooksBinary, "bin", "", "drb binary the hooks run (default: this executable)")
	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksUninstallCmd)
}

func hooksSettingsPath() (string, error) {
	if flagHooksSettings != "" {
		return flagHooksSettings, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

func hooksBinary() string {
	if flagHooksBinary != "" {
		return flagHooksBinary
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			return resolved
		}
		return exe
	}
	return "drb"
}

func runHooksInstall(cmd *cobra.Command, args []string) error {
	path, err := hooksSettingsPath()
	if err != nil {
		return err
	}
	if err := InstallHooks(path, hooksBinary()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s drb hooks in %s\n", styleSuccess.Render("Registered"), path)
	return nil
}

func runHooksUninstall(cmd *cobra.Command, args []string) error {
	path, err := hooksSettingsPath()
	if err != nil {
		return err
	}
	removed, err := UninstallHooks(path)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(cmd.OutOrStdout(), "No drb hooks found.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed drb hooks from %s\n", path)
	return nil
}

// InstallHooks adds drb's hooks to the agent settings file, replacing any
// earlier drb entries and leaving everything else untouched.
func InstallHooks(path, binary string) error {
	settings, err := readAgentSettings(path)
	if err != nil {
		return err
	}
	hooks := hooksSection(settings)
	removeDrbGroups(hooks)

	for _, h := range agentHooks {
		group := map[string]interface{}{
			"hooks": []interface{}{
				map[string]interface{}{
					"type":    "command",
					"command": quoteIfNeeded(binary) + " " + h.Subcommand,
				},
			},
		}
		existing, _ := hooks[h.Event].([]interface{})
		hooks[h.Event] = append(existing, group)
	}
	settings["hooks"] = hooks
	return writeAgentSettings(path, settings)
}

// UninstallHooks removes drb's hooks. It reports whether anything changed.
func UninstallHooks(path string) (bool, error) {
	if !config.FileExists(path) {
		return false, nil
	}
	settings, err := readAgentSettings(path)
	if err != nil {
		return false, err
	}
	hooks := hooksSection(settings)
	if !removeDrbGroups(hooks) {
		return false, nil
	}
	if len(hooks) == 0 {
		delete(settings, "hooks")
	} else {
		settings["hooks"] = hooks
	}
	return true, writeAgentSettings(path, settings)
}

// removeDrbGroups drops every matcher group running a drb command and
// deletes events left empty. It reports whether anything was removed.
func removeDrbGroups(hooks map[string]interface{}) bool {
	changed := false
	for event, raw := range hooks {
		groups, ok := raw.([]interface{})
		if !ok {
			continue
		}
		kept := make([]interface{}, 0, len(groups))
		for _, g := range groups {
			if isDrbGroup(g) {
				changed = true
				continue
			}
			kept = append(kept, g)
		}
		if len(kept) == 0 {
			delete(hooks, event)
		} else {
			hooks[event] = kept
		}
	}
	return changed
}

func isDrbGroup(g interface{}) bool {
	group, ok := g.(map[string]interface{})
	if !ok {
		return false
	}
	entries, _ := group["hooks"].([]interface{})
	for _, e := range entries {
		entry, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		if command, _ := entry["command"].(string); isDrbCommand(command) {
			return true
		}
	}
	return false
}

// isDrbCommand matches "<path>/drb <subcommand>", with the path optionally
// single-quoted the way quoteIfNeeded writes it.
func isDrbCommand(command string) bool {
	command = strings.TrimSpace(command)
	i := strings.LastIndexByte(command, ' ')
	if i < 0 || !hookSubcommands[command[i+1:]] {
		return false
	}
	binary := strings.TrimSpace(command[:i])
	if len(binary) >= 2 && binary[0] == '\'' && binary[len(binary)-1] == '\'' {
		binary = strings.ReplaceAll(binary[1:len(binary)-1], `'\''`, "'")
	}
	return filepath.Base(binary) == drbBinaryName
}

func hooksSection(settings map[string]interface{}) map[string]interface{} {
	hooks, ok := settings["hooks"].(map[string]interface{})
	if !ok {
		hooks = map[string]interface{}{}
	}
	return hooks
}

func readAgentSettings(path string) (map[string]interface{}, error) {
	settings := map[string]interface{}{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return settings, nil
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return settings, nil
}

func writeAgentSettings(path string, settings map[string]interface{}) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return config.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t'\"") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}
