package catalog

// FallbackRecommendations is the offline selection shown when the catalog
// API cannot be reached.
func FallbackRecommendations() Recommendations {
	return Recommendations{
		Tracks: []Track{
			{ID: "track-basic-1", Title: "云计算基础入门", Summary: "理解云计算核心概念与服务模型。", Level: "基础", Tags: []string{"基础", "云计算"}},
			{ID: "track-docker-1", Title: "Docker 基础实战", Summary: "从零搭建容器化环境，掌握镜像与网络。", Level: "基础", Tags: []string{"Docker", "容器"}},
		},
		Resources: []Resource{
			{ID: "res-article-1", Title: "容器化快速上手", Description: "通过示例了解容器镜像与运行时基础。", Type: "文章"},
			{ID: "res-video-2", Title: "K8s 核心对象讲解", Description: "视频讲解 Pod/Service/Deployment 关系。", Type: "视频"},
			{ID: "res-lab-1", Title: "部署第一个 Pod 实验", Description: "在线实验指导，完成基础 Pod 部署。", Type: "实验"},
		},
	}
}
