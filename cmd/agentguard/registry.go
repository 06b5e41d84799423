package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/registry"
	"github.com/agentguard/agentguard/pkg/policy"
)

func newRegistryCmd(newSvc func() (*App, error), jsonOutput *bool) *cobra.Command {
	regCmd := &cobra.Command{Use: "registry", Aliases: []string{"reg"}, Short: "Manage trust registry records"}
	regCmd.AddCommand(
		newRegistryAttestCmd(newSvc, jsonOutput),
		newRegistryRevokeCmd(newSvc, jsonOutput),
		newRegistryListCmd(newSvc, jsonOutput),
		newRegistryLookupCmd(newSvc, jsonOutput),
	)
	return regCmd
}

func newRegistryAttestCmd(newSvc func() (*App, error), jsonOutput *bool) *cobra.Command {
	var source, versionRef, artifactHash, trustLevel, reviewer, notes string
	var execAllow, force bool
	var networkAllowlist, fsAllowlist, secretsAllowlist []string

	cmd := &cobra.Command{
		Use:   "attest <skill-id>",
		Short: "Record or update a skill's trust level and capabilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newSvc()
			if err != nil {
				return err
			}
			exec := capability.ExecDeny
			if execAllow {
				exec = capability.ExecAllow
			}
			req := registry.AttestRequest{
				Skill: policy.SkillIdentity{
					ID:           args[0],
					Source:       source,
					VersionRef:   versionRef,
					ArtifactHash: artifactHash,
				},
				TrustLevel: registry.ParseTrustLevel(trustLevel),
				Capabilities: capability.Set{
					NetworkAllowlist:    networkAllowlist,
					FilesystemAllowlist: fsAllowlist,
					Exec:                exec,
					SecretsAllowlist:    secretsAllowlist,
				},
				ReviewMetadata: registry.ReviewMetadata{Reviewer: reviewer, Notes: notes},
				Force:          force,
			}
			var rec registry.Record
			if force {
				rec, err = app.Registry.ForceAttest(req)
			} else {
				rec, err = app.Registry.Attest(req)
			}
			if err != nil {
				return err
			}
			return printOut(*jsonOutput, rec, fmt.Sprintf("attested %s as %s", args[0], rec.TrustLevel))
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "skill source identifier")
	cmd.Flags().StringVar(&versionRef, "version", "", "version reference")
	cmd.Flags().StringVar(&artifactHash, "artifact-hash", "", "precomputed artifact hash (see scan)")
	cmd.Flags().StringVar(&trustLevel, "trust-level", "restricted", "untrusted|restricted|trusted")
	cmd.Flags().BoolVar(&execAllow, "allow-exec", false, "grant exec capability")
	cmd.Flags().StringSliceVar(&networkAllowlist, "network-allow", nil, "allowed network domains")
	cmd.Flags().StringSliceVar(&fsAllowlist, "fs-allow", nil, "allowed filesystem path globs")
	cmd.Flags().StringSliceVar(&secretsAllowlist, "secrets-allow", nil, "allowed secret names")
	cmd.Flags().StringVar(&reviewer, "reviewer", "", "reviewer identity")
	cmd.Flags().StringVar(&notes, "notes", "", "review notes")
	cmd.Flags().BoolVar(&force, "force", false, "confirm raising trust level")
	return cmd
}

func newRegistryRevokeCmd(newSvc func() (*App, error), jsonOutput *bool) *cobra.Command {
	var source, versionRef, recordKey string
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke matching trust records (monotonic; never deletes history)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newSvc()
			if err != nil {
				return err
			}
			revoked, err := app.Registry.Revoke(registry.RevokeMatch{Source: source, VersionRef: versionRef, RecordKey: recordKey})
			if err != nil {
				return err
			}
			return printOut(*jsonOutput, revoked, fmt.Sprintf("revoked %d record(s)", len(revoked)))
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "match by source")
	cmd.Flags().StringVar(&versionRef, "version", "", "match by version reference")
	cmd.Flags().StringVar(&recordKey, "record-key", "", "match by exact record key")
	return cmd
}

func newRegistryListCmd(newSvc func() (*App, error), jsonOutput *bool) *cobra.Command {
	var trustLevel, status, sourcePattern string
	var includeExpired bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trust registry records",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newSvc()
			if err != nil {
				return err
			}
			filters := registry.ListFilters{SourcePattern: sourcePattern, IncludeExpired: includeExpired}
			if trustLevel != "" {
				tl := registry.ParseTrustLevel(trustLevel)
				filters.TrustLevel = &tl
			}
			if status != "" {
				st := registry.Status(status)
				filters.Status = &st
			}
			records := app.Registry.List(filters)
			if *jsonOutput {
				return printOut(true, records, "")
			}
			if len(records) == 0 {
				fmt.Println("no matching records")
				return nil
			}
			for _, r := range records {
				fmt.Printf("- %s %s trust=%s status=%s\n", r.RecordKey, r.Skill.ID, r.TrustLevel, r.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&trustLevel, "trust-level", "", "filter by trust level")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active|revoked)")
	cmd.Flags().StringVar(&sourcePattern, "source", "", "filter by source glob pattern")
	cmd.Flags().BoolVar(&includeExpired, "include-expired", false, "include expired records")
	return cmd
}

func newRegistryLookupCmd(newSvc func() (*App, error), jsonOutput *bool) *cobra.Command {
	var source, versionRef, artifactHash, recordKey string
	cmd := &cobra.Command{
		Use:   "lookup <skill-id>",
		Short: "Resolve a skill's effective trust level and capabilities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newSvc()
			if err != nil {
				return err
			}
			var result registry.LookupResult
			if recordKey != "" {
				result = app.Registry.LookupByKey(recordKey)
			} else {
				id := ""
				if len(args) == 1 {
					id = args[0]
				}
				result = app.Registry.Lookup(policy.SkillIdentity{ID: id, Source: source, VersionRef: versionRef, ArtifactHash: artifactHash})
			}
			if *jsonOutput {
				return printOut(true, result, "")
			}
			fmt.Printf("effective trust=%s exec=%s network=%s fs=%s secrets=%s\n",
				result.EffectiveTrustLevel, result.EffectiveCapabilities.Exec,
				strings.Join(result.EffectiveCapabilities.NetworkAllowlist, ","),
				strings.Join(result.EffectiveCapabilities.FilesystemAllowlist, ","),
				strings.Join(result.EffectiveCapabilities.SecretsAllowlist, ","))
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "skill source identifier")
	cmd.Flags().StringVar(&versionRef, "version", "", "version reference")
	cmd.Flags().StringVar(&artifactHash, "artifact-hash", "", "artifact hash")
	cmd.Flags().StringVar(&recordKey, "record-key", "", "lookup by exact record key instead")
	return cmd
}
