package resource

// Options is the frozen per-resource configuration. It is read once at
// resource construction; the engine never consults the caller's copy
// afterwards.
type Options struct {
	// Fields whitelists field names; empty means every registered field.
	Fields []string

	// Exclude blacklists field names.
	Exclude []string

	// ImportIDFields names the fields identifying existing objects.
	// Defaults to a single surrogate "id".
	ImportIDFields []string

	// ColumnOrder overrides the registration order for columns; empty
	// means registration order.
	ColumnOrder []string

	// UseTransactions is a tri-state transaction toggle: true/false, or
	// nil to inherit the process-wide default.
	UseTransactions *bool

	// SkipUnchanged records rows whose resolved object is field-equal to
	// its pre-mutation snapshot as SKIP, bypassing persistence.
	SkipUnchanged bool

	// ReportSkipped includes SKIP rows in the batch result. Defaults to
	// true.
	ReportSkipped *bool
}

// normalized returns a copy with defaults applied. Slices are copied so
// later mutation of the caller's Options cannot reach the resource.
func (o Options) normalized() Options {
	out := Options{
		Fields:         copyStrings(o.Fields),
		Exclude:        copyStrings(o.Exclude),
		ImportIDFields: copyStrings(o.ImportIDFields),
		ColumnOrder:    copyStrings(o.ColumnOrder),
		SkipUnchanged:  o.SkipUnchanged,
	}
	if len(out.ImportIDFields) == 0 {
		out.ImportIDFields = []string{"id"}
	}
	if o.UseTransactions != nil {
		v := *o.UseTransactions
		out.UseTransactions = &v
	}
	reportSkipped := true
	if o.ReportSkipped != nil {
		reportSkipped = *o.ReportSkipped
	}
	out.ReportSkipped = &reportSkipped
	return out
}

// useTransactions resolves the effective transaction toggle: an explicit
// per-batch override wins, then the resource option, then the process
// default.
func (o Options) useTransactions(override *bool, processDefault bool) bool {
	if override != nil {
		return *override
	}
	if o.UseTransactions != nil {
		return *o.UseTransactions
	}
	return processDefault
}

// reportSkipped reports whether SKIP rows are recorded in the result.
func (o Options) reportSkipped() bool {
	return o.ReportSkipped == nil || *o.ReportSkipped
}

// columnOrder returns the effective ordered field names for the given
// registry.
func (o Options) columnOrder(reg *FieldRegistry) []string {
	if len(o.ColumnOrder) == 0 {
		return reg.Names()
	}
	return copyStrings(o.ColumnOrder)
}

// Bool is a convenience for the tri-state toggles.
func Bool(v bool) *bool { return &v }

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
