package crumb

// Build turns an accumulated tag map into a Breadcrumb anchored at path and
// line. Keys must already be canonical (see CanonicalTag); unrecognized keys
// are dropped. The map is copied, so callers may keep using it.
func Build(path string, line int, tags map[string]string, context any) Breadcrumb {
	b := Breadcrumb{
		FilePath:   path,
		LineNumber: line,
		Context:    context,
		RawTags:    make(map[string]string, len(tags)),
	}
	for name, value := range tags {
		if !recognizedTags[name] {
			continue
		}
		b.RawTags[name] = value
	}

	fields := map[string]**string{
		TagPhase:                  &b.Phase,
		TagStatus:                 &b.Status,
		TagPattern:                &b.Pattern,
		TagStrategy:               &b.Strategy,
		TagDetails:                &b.Details,
		TagNote:                   &b.AINote,
		TagHistory:                &b.AIHistory,
		TagChange:                 &b.AIChange,
		TagVersion:                &b.AIVersion,
		TagTrainHash:              &b.AITrainHash,
		TagCompilerErr:            &b.CompilerErr,
		TagRuntimeErr:             &b.RuntimeErr,
		TagFixReason:              &b.FixReason,
		TagLinuxRef:               &b.LinuxRef,
		TagAmigaOSRef:             &b.AmigaOSRef,
		TagAROSImpl:               &b.AROSImpl,
		TagRefGithubIssue:         &b.RefGithubIssue,
		TagRefPR:                  &b.RefPR,
		TagRefTroubleTicket:       &b.RefTroubleTicket,
		TagRefUserFeedback:        &b.RefUserFeedback,
		TagRefAuditLog:            &b.RefAuditLog,
		TagHumanOverride:          &b.HumanOverride,
		TagPreviousImplementation: &b.PreviousImplementationRef,
		TagCorrectionRef:          &b.CorrectionRef,
		TagMarker:                 &b.Marker,
		TagDependencies:           &b.Dependencies,
		TagBlocks:                 &b.Blocks,
	}
	for name, field := range fields {
		value, ok := b.RawTags[name]
		if !ok {
			continue
		}
		v := value
		*field = &v
	}

	return b
}
