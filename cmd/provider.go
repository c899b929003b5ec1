package cmd

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"codecombiner/pkg/summarize"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var providerName string

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Configure AI providers used for summarization",
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the providers in the registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := appFrom(cmd)
		prefs := summarize.LoadPreferences(a.cfg.PreferencesFile, a.logger)
		registry := a.dispatcher.Registry()

		out := cmd.OutOrStdout()
		for _, name := range registry.Names() {
			entry, _ := registry.Lookup(name)
			marker := "  "
			line := fmt.Sprintf("%s (%s)", name, entry.Kind)
			if name == prefs.CurrentProvider() {
				marker = "* "
				line = headerStyle.Render(line)
			}
			models := "no models"
			if len(entry.Models) > 0 {
				models = strings.Join(entry.Models, ", ")
			}
			fmt.Fprintf(out, "%s%s %s\n", marker, line, mutedStyle.Render(models))
		}
		return nil
	},
}

var providerUseCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Select the provider used for summarization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		name := args[0]
		if _, ok := a.dispatcher.Registry().Lookup(name); !ok {
			return fmt.Errorf("%w: %s", summarize.ErrUnsupportedProvider, name)
		}

		prefs := summarize.LoadPreferences(a.cfg.PreferencesFile, a.logger)
		prefs.SetCurrentProvider(name)
		if err := summarize.SavePreferences(a.cfg.PreferencesFile, prefs); err != nil {
			a.logger.Error("Failed to save preferences", zap.Error(err))
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Current provider: "+name))
		return nil
	},
}

// baseSettingKeys are accepted for every provider.
var baseSettingKeys = []string{
	summarize.KeyAPIKey,
	summarize.KeyModel,
	summarize.KeyInputTokenLimitEnabled,
	summarize.KeyInputTokenLimit,
	summarize.KeyOutputTokenLimitEnabled,
	summarize.KeyOutputTokenLimit,
}

var providerSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a setting for a provider",
	Long: `Store a setting for the current provider, or the one named by --provider.

Every provider accepts: api_key, model, input_token_limit_enabled, input_token_limit,
output_token_limit_enabled, output_token_limit. Some also accept api_base, organization_id
or max_tokens; see "provider show".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		key, raw := args[0], args[1]

		prefs := summarize.LoadPreferences(a.cfg.PreferencesFile, a.logger)
		name := providerName
		if name == "" {
			name = prefs.CurrentProvider()
		}
		entry, ok := a.dispatcher.Registry().Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s", summarize.ErrUnsupportedProvider, name)
		}

		allowed := append(slices.Clone(baseSettingKeys), entry.OptionalFields()...)
		if entry.Kind == summarize.KindAnthropic {
			allowed = append(allowed, summarize.KeyAnthropicMaxTokens)
		}
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("%w: %s does not accept %q (allowed: %s)",
				summarize.ErrInvalidSetting, name, key, strings.Join(allowed, ", "))
		}

		var value any = raw
		if strings.HasSuffix(key, "_enabled") {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%w: %s expects true or false", summarize.ErrInvalidSetting, key)
			}
			value = b
		}
		if key == summarize.KeyModel && len(entry.Models) > 0 && !slices.Contains(entry.Models, raw) {
			fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(
				fmt.Sprintf("Model %s is not listed for %s; storing it anyway", raw, name)))
		}

		prefs.Set(name, key, value)
		if err := summarize.SavePreferences(a.cfg.PreferencesFile, prefs); err != nil {
			a.logger.Error("Failed to save preferences", zap.Error(err))
			return err
		}
		a.logger.Info("Provider setting saved", zap.String("provider", name), zap.String("key", key))
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("%s: %s updated", name, key)))
		return nil
	},
}

var providerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored settings for a provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := appFrom(cmd)
		prefs := summarize.LoadPreferences(a.cfg.PreferencesFile, a.logger)
		name := providerName
		if name == "" {
			name = prefs.CurrentProvider()
		}
		entry, ok := a.dispatcher.Registry().Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s", summarize.ErrUnsupportedProvider, name)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render(name))
		settings := prefs.Settings(name).Redacted()
		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%s = %s\n", k, settings.String(k))
		}
		if model := settings.String(summarize.KeyModel); model == "" && entry.DefaultModel() != "" {
			fmt.Fprintln(out, mutedStyle.Render("model defaults to "+entry.DefaultModel()))
		}
		if fields := entry.OptionalFields(); len(fields) > 0 {
			fmt.Fprintln(out, mutedStyle.Render("optional fields: "+strings.Join(fields, ", ")))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{providerSetCmd, providerShowCmd} {
		c.Flags().StringVar(&providerName, "provider", "", "Provider to configure (defaults to the current provider)")
	}

	providerCmd.AddCommand(providerListCmd, providerUseCmd, providerSetCmd, providerShowCmd)
	RootCmd.AddCommand(providerCmd)
}
