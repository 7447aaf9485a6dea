package record

import "os"

// osOpenFlags opens the backing file read-write, creating it if absent,
// per the specification's contract for Record Files.
const osOpenFlags = os.O_RDWR | os.O_CREATE
