package graph

// InvalidID is the sentinel identifier meaning "absent", used throughout
// the in-memory graph model for unset label/relationship/property
// references.
//
// Every chain and pointer field in this package (Node.FirstRelID,
// Node.FirstPropID, Relationship.StartPrevID/StartNextID/EndPrevID/
// EndNextID, Property.NextPropID) terminates with InvalidID rather than a
// zero value, since 0 is a legitimate id. It matches codec.InvalidID's
// bit pattern so ids can cross the codec boundary without translation.
const InvalidID int32 = -1
