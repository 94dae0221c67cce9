package service

// VisibleOwners 可见性解析：给定查看者与其好友 ID 集合，
// 返回其可见的发布者集合 = {自己} ∪ 好友（去重，不含好友的好友）。
// 每次请求重算，不做缓存；缓存失效问题归外部关系存储管。
func VisibleOwners(viewerID uint64, friendIDs []uint64) []uint64 {
	seen := map[uint64]struct{}{viewerID: {}}
	owners := make([]uint64, 1, len(friendIDs)+1)
	owners[0] = viewerID
	for _, id := range friendIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		owners = append(owners, id)
	}
	return owners
}
