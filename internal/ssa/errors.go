package ssa

import "github.com/lumenvm/lumen/internal/lumenerr"

func raiseRenameUnderflow(varName string) {
	lumenerr.Raise(lumenerr.CodeRenameUnderflow,
		"use of "+varName+" has no dominating definition", varName)
}

func raiseMalformedPhi() {
	lumenerr.Raise(lumenerr.CodeMalformedPhi,
		"phi incoming-value slot is not a variable", "")
}
