package light

import "lightcode-go/bus"

// light/<name>/...
func base(name string) bus.Topic { return bus.T("light", name) }

func TopicInfo(name string) bus.Topic  { return base(name).Append("info") }
func TopicState(name string) bus.Topic { return base(name).Append("state") }

// TopicControl is light/<name>/control/<verb>.
func TopicControl(name, verb string) bus.Topic { return base(name).Append("control", verb) }

// TopicService carries the retained types.ServiceState of the service.
func TopicService() bus.Topic { return bus.T("light", "state") }

func ctrlWildcard(name string) bus.Topic { return base(name).Append("control", bus.Single) }

const verbIndex = 3
