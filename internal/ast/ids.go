package ast

type (
	FunctionID uint32
	StructID   uint32
	ClassID    uint32
	TraitID    uint32
	EnumID     uint32
	UnionID    uint32
	TypeDefID  uint32
	// MemoryID - индекс в ProgramMemory
	MemoryID uint32
)

const (
	NoFunctionID FunctionID = 0
	NoStructID   StructID   = 0
	NoClassID    ClassID    = 0
	NoTraitID    TraitID    = 0
	NoEnumID     EnumID     = 0
	NoUnionID    UnionID    = 0
	NoTypeDefID  TypeDefID  = 0
	NoMemoryID   MemoryID   = 0
)

func (id FunctionID) IsValid() bool { return id != NoFunctionID }
func (id StructID) IsValid() bool   { return id != NoStructID }
func (id ClassID) IsValid() bool    { return id != NoClassID }
func (id TraitID) IsValid() bool    { return id != NoTraitID }
func (id EnumID) IsValid() bool     { return id != NoEnumID }
func (id UnionID) IsValid() bool    { return id != NoUnionID }
func (id TypeDefID) IsValid() bool  { return id != NoTypeDefID }
func (id MemoryID) IsValid() bool   { return id != NoMemoryID }
