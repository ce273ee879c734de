// Support JSON marshalling of decoded trees. Snapshots are plain
// value trees (ordered dicts, lists, scalars) so every node kind
// serializes through its snapshot.

package bindata

import "encoding/json"

func (self *base) MarshalJSON() ([]byte, error) {
	snapshot, err := self.impl.Snapshot()
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshot)
}
