package ir

// IntPredicate is the comparison performed by an icmp instruction.
type IntPredicate uint8

const (
	IntPredNone IntPredicate = iota
	IntEQ                    // equal
	IntNE                    // not equal
	IntUGT                   // unsigned greater than
	IntUGE                   // unsigned greater or equal
	IntULT                   // unsigned less than
	IntULE                   // unsigned less or equal
	IntSGT                   // signed greater than
	IntSGE                   // signed greater or equal
	IntSLT                   // signed less than
	IntSLE                   // signed less or equal
)

var intPredNames = [...]string{
	IntPredNone: "",
	IntEQ:       "eq",
	IntNE:       "ne",
	IntUGT:      "ugt",
	IntUGE:      "uge",
	IntULT:      "ult",
	IntULE:      "ule",
	IntSGT:      "sgt",
	IntSGE:      "sge",
	IntSLT:      "slt",
	IntSLE:      "sle",
}

func (p IntPredicate) String() string {
	if int(p) < len(intPredNames) {
		return intPredNames[p]
	}
	return ""
}

// LookupIntPredicate maps an icmp condition code to its predicate.
func LookupIntPredicate(name string) (IntPredicate, bool) {
	for p, n := range intPredNames {
		if n != "" && n == name {
			return IntPredicate(p), true
		}
	}
	return IntPredNone, false
}

// FloatPredicate is the comparison performed by an fcmp instruction.
type FloatPredicate uint8

const (
	FloatPredNone FloatPredicate = iota
	FloatFalse                   // always false
	FloatOEQ                     // ordered and equal
	FloatOGT                     // ordered and greater than
	FloatOGE                     // ordered and greater than or equal
	FloatOLT                     // ordered and less than
	FloatOLE                     // ordered and less than or equal
	FloatONE                     // ordered and unequal
	FloatORD                     // ordered (no nans)
	FloatUNO                     // unordered: isnan(X) | isnan(Y)
	FloatUEQ                     // unordered or equal
	FloatUGT                     // unordered or greater than
	FloatUGE                     // unordered, greater than, or equal
	FloatULT                     // unordered or less than
	FloatULE                     // unordered, less than, or equal
	FloatUNE                     // unordered or not equal
	FloatTrue                    // always true
)

var floatPredNames = [...]string{
	FloatPredNone: "",
	FloatFalse:    "false",
	FloatOEQ:      "oeq",
	FloatOGT:      "ogt",
	FloatOGE:      "oge",
	FloatOLT:      "olt",
	FloatOLE:      "ole",
	FloatONE:      "one",
	FloatORD:      "ord",
	FloatUNO:      "uno",
	FloatUEQ:      "ueq",
	FloatUGT:      "ugt",
	FloatUGE:      "uge",
	FloatULT:      "ult",
	FloatULE:      "ule",
	FloatUNE:      "une",
	FloatTrue:     "true",
}

func (p FloatPredicate) String() string {
	if int(p) < len(floatPredNames) {
		return floatPredNames[p]
	}
	return ""
}

// LookupFloatPredicate maps an fcmp condition code to its predicate.
func LookupFloatPredicate(name string) (FloatPredicate, bool) {
	for p, n := range floatPredNames {
		if n != "" && n == name {
			return FloatPredicate(p), true
		}
	}
	return FloatPredNone, false
}
