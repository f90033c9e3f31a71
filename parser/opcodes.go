package parser

// Opcode "major" values for the 4-field {Major, Minor, Scope, Arg}
// instruction encoding (spec §3/§4.4). Defined here, not in package vm,
// so both the AST (which emits them) and the VM (which executes them)
// can depend on one shared vocabulary without an import cycle between
// parser and vm.
const (
	OpNop byte = iota
	OpPushConst
	OpPop
	OpDup

	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpSetGlobal
	OpGetField
	OpSetField
	OpIndex
	OpIndexSet

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpIDiv
	OpMod
	OpPow
	OpNeg
	OpNot
	OpConcat
	OpConcatNull

	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe

	OpJump
	OpJumpIfFalse
	OpJumpIfTrue

	OpMakeList
	OpCall
	OpReturn

	OpPushHandler
	OpPopHandler
	OpClearError
	OpRaise

	OpForPrep
	OpForNext

	OpWithPush
	OpWithPop

	OpCallSpecial
	OpDeclareLocal
	OpMakeCallable
	OpForEachPrep
	OpForEachNext
	OpNewStruct

	OpHalt
)
